package document

import "strings"

var letterFields = []Field{
	{Name: "Date", Kind: KindDate},
	{Name: "To", Kind: KindText},
	{Name: "Subject", Kind: KindText},
}

type requestLetterTemplate struct{}

func (requestLetterTemplate) Type() string              { return TypeRequestLetter }
func (requestLetterTemplate) HeaderFields() []Field     { return letterFields }
func (requestLetterTemplate) LineItemColumns() []string { return nil }

func (t requestLetterTemplate) Validate(d *Data) error {
	p := &problems{docType: t.Type()}
	checkHeader(p, letterFields, d)
	if strings.TrimSpace(d.Content) == "" {
		p.add("letter content is required")
	}
	return p.err()
}

// Paragraphs абзацы письма, по одному на строку
func Paragraphs(content string) []string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, strings.TrimSpace(l))
	}
	return out
}

func (t requestLetterTemplate) Render(c *Canvas, d *Data) error {
	err := c.Header(func() error {
		c.Title(t.Type())
		for _, field := range letterFields {
			c.Font("B", 10)
			c.Cell(35, 8, field.Name+":", "", 0, "L")
			c.Font("", 10)
			c.Cell(0, 8, d.Get(field.Name), "", 1, "L")
		}
		c.Ln(5)
		return nil
	})
	if err != nil {
		return err
	}

	err = c.LineItems(func() error {
		c.Font("", 11)
		for _, para := range Paragraphs(d.Content) {
			c.Paragraph(6, para, "L")
			c.Ln(2)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.Totals(nil)
}
