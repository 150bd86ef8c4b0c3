package excel

// ReaderConfig holds parsing options for CSV and workbook sources
type ReaderConfig struct {
	Sheet       string // Workbook sheet; empty means the first sheet
	Comma       rune   // CSV field delimiter
	LazyQuotes  bool   // Accept stray quotes inside unquoted CSV fields
	DecodeEUCKR bool   // Decode non-UTF-8 CSV bytes as EUC-KR
}

// DefaultReaderConfig returns sensible defaults for the published statistics files
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Comma:       ',',
		LazyQuotes:  true,
		DecodeEUCKR: true,
	}
}
