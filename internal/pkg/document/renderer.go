package document

// Document is a laid-out report ready to be rendered.
type Document struct {
	Input     Input
	Pages     []Page
	Watermark *Watermark
}

// Renderer turns a laid-out document into a file payload.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}
