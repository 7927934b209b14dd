package gdocai

// Config identifies a Document AI processor.
type Config struct {
	ProjectID   string
	Location    string // "us" or "eu"
	ProcessorID string
	// CredentialsFile is a service account JSON file. When empty the
	// GOOGLE_APPLICATION_CREDENTIALS environment variable is used.
	CredentialsFile string
}

// ProcessorName returns the full resource name of the processor.
func (c *Config) ProcessorName() string {
	return "projects/" + c.ProjectID + "/locations/" + c.Location + "/processors/" + c.ProcessorID
}
