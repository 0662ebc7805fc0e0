package core

// SourceKind says where the text of a run comes from.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceFile
	SourceLiteral
	SourceScrape
)

func (k SourceKind) String() string {
	switch k {
	case SourceFile:
		return "file"
	case SourceLiteral:
		return "literal"
	case SourceScrape:
		return "scrape"
	default:
		return "none"
	}
}

// RunConfig is the configuration of one extraction run.
//
// SourcePath is the file to chunk-read. For SourceScrape it is the path the
// extracted page text is saved to before reading.
type RunConfig struct {
	SourceKind SourceKind
	SourcePath string
	ScrapeURL  string
	Text       string
	OutputPath string
	Tag        Tag
	Language   Language
	Tier       Tier
}

// DefaultRunConfig returns a configuration that extracts English proper nouns.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Tag:      TagProperNoun,
		Language: English,
		Tier:     TierStandard,
	}
}
