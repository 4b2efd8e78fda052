package integrations

// Processor persists one downloaded image and returns where it went
type Processor interface {
	Process(chapterTag, imageURL string, content []byte) (string, error)
}
