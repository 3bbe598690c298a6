package locator

import "time"

func css(name, selector string) Strategy {
	return Strategy{Name: name, Selector: selector, Wait: DefaultWait}
}

func text(name, selector, pattern string) Strategy {
	return Strategy{Name: name, Selector: selector, TextPattern: pattern, Wait: DefaultWait}
}

// UsernameField tries type/id/name patterns first, then placeholder and aria labels.
func UsernameField() Chain {
	return NewChain("username field",
		css("standard attributes",
			"input[type='text'], input[type='email'], input[id*='user'], input[name*='user'], input[id*='email'], input[name*='email']"),
		css("placeholder or aria label",
			"input[placeholder*='user' i], input[placeholder*='email' i], input[aria-label*='user' i], input[aria-label*='email' i]"),
	)
}

func PasswordField() Chain {
	return NewChain("password field",
		css("password type", "input[type='password']"),
		css("placeholder or aria label", "input[placeholder*='password' i], input[aria-label*='password' i]"),
	)
}

func LoginButton() Chain {
	return NewChain("login button",
		css("submit button", "button[type='submit']"),
		css("submit input", "input[type='submit']"),
		css("button id login", "button[id*='login' i]"),
		css("button class login", "button[class*='login' i]"),
		css("button id signin", "button[id*='signin' i]"),
		css("button class signin", "button[class*='signin' i]"),
		css("anchor login", "a[href*='login' i]"),
		css("anchor signin", "a[href*='signin' i]"),
		text("button text sign in", "button", "Sign in"),
		text("button text login", "button", "Login"),
	)
}

func NavLinks() Chain {
	return NewChain("navigation links",
		css("nav", "nav a"),
		css("sidebar", ".sidebar a"),
		css("navigation", ".navigation a"),
		css("menu", ".menu a"),
		css("ul nav", "ul.nav a"),
		css("navbar", ".navbar a"),
		css("real links", "a[href]:not([href='#']):not([href^='javascript'])"),
	)
}

func DataRegions() Chain {
	return NewChain("data regions",
		css("table", "table"),
		css("chart", ".chart"),
		css("graph", ".graph"),
		css("data table", ".data-table"),
		css("grid role", "[data-role='grid']"),
		css("grid", ".grid"),
		css("report data", ".report-data"),
		css("report container", ".report-container"),
	)
}

// Set bundles the chains used by the scenario so callers can swap or extend them.
type Set struct {
	Username    Chain
	Password    Chain
	LoginButton Chain
	NavLinks    Chain
	DataRegions Chain
}

// DefaultSet returns the built-in chains with every wait set to wait.
func DefaultSet(wait time.Duration) Set {
	if wait <= 0 {
		wait = DefaultWait
	}
	return Set{
		Username:    UsernameField().WithWait(wait),
		Password:    PasswordField().WithWait(wait),
		LoginButton: LoginButton().WithWait(wait),
		NavLinks:    NavLinks().WithWait(wait),
		DataRegions: DataRegions().WithWait(wait),
	}
}
