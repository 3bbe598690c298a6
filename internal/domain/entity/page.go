package entity

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

func (s *Screenshot) MIMEType() string {
	if s == nil || s.Format == "" {
		return "image/png"
	}
	return "image/" + s.Format
}
