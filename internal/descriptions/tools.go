package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	ListRemoteDescription = `List the termos de aditamento available from the remote document host.

**When to use:** Before calling aditamento_extract_remote, to see which document names are accepted.

**Examples:**
• "Which remote termos can I process?"

**Best practices:** Only names from this list can be fetched; anything else is rejected and reported.`

	ExtractRemoteDescription = `Fetch remote termos de aditamento and extract their contractual terms.

**When to use:** Summarize the reference documents hosted remotely without uploading anything.

**Why it's useful:** Produces one row per document with the ten term categories (credit update index, acquisition forms, contemplation, prepayment, bid dilution, reduced installment, credit increase, credit life insurance, additional notes) and the file name.

**Examples:**
• Summarize everything: call with no arguments
• Summarize two documents as CSV: names="termo1.pdf,termo3.pdf", format="csv"

**Notes:** A document whose download does not return HTTP 200 is skipped and reported with its status code; the others are still processed. Fields without a match read "Não encontrado".`

	ExtractFilesDescription = `Extract contractual terms from PDF files in the configured directory.

**When to use:** The termos are available locally rather than on the remote host.

**Examples:**
• paths="termo-jan.pdf,2024/termo-fev.pdf", format="txt"

**Notes:** Paths are resolved against the configured directory and must stay inside it. Unreadable PDFs are skipped and reported.`

	SearchDirectoryDescription = `Find PDF files in the configured directory, optionally filtering by name.

**When to use:** Discover which local files can be passed to aditamento_extract_files.

**Examples:**
• query="termo" lists every PDF whose name contains "termo"`

	MatchTextDescription = `Run the term patterns over raw text instead of a PDF.

**When to use:** Check what would be extracted from a clause you already have as text.

**Examples:**
• text="Atualização pelo IPCA ou pela tabela do fabricante."`

	ServerInfoDescription = `Show server configuration, the term categories that are extracted, and the available tools.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"aditamento_list_remote":      ListRemoteDescription,
	"aditamento_extract_remote":   ExtractRemoteDescription,
	"aditamento_extract_files":    ExtractFilesDescription,
	"aditamento_search_directory": SearchDirectoryDescription,
	"aditamento_match_text":       MatchTextDescription,
	"aditamento_server_info":      ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns every tool name, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
