// Package terms extracts the contractual term categories of a "termo de
// aditamento" from its plain text.
package terms

import "regexp"

// NotFound is the value of a field whose pattern had no match
const NotFound = "Não encontrado"

// FileColumn is the column holding the document identifier. It always
// follows the field columns.
const FileColumn = "Arquivo"

// Field names, in declaration order
const (
	FieldAtualizacaoCredito = "Condição de Atualização do Crédito"
	FieldFormasAquisicao    = "Formas de Aquisição do Bem"
	FieldContemplacoes      = "Contemplações e Observações"
	FieldAntecipacoes       = "Antecipações e Observações"
	FieldParcelaAntecipada  = "Condição de Parcela Antecipada"
	FieldDiluicaoLance      = "Opção de Diluição do Lance"
	FieldParcelaReduzida    = "Parcela Reduzida"
	FieldAumentoCredito     = "Aumento de Crédito"
	FieldSeguroPrestamista  = "Seguro Prestamista"
	FieldObservacoes        = "Observações Adicionais"
)

// FieldSpec pairs a field name with the pattern that finds its values
type FieldSpec struct {
	Name    string
	Pattern *regexp.Regexp
}

// Observações Adicionais runs from a '*' to the end of its line; '.' never
// crosses a newline.
var specs = []FieldSpec{
	{FieldAtualizacaoCredito, regexp.MustCompile(`(?i)(IPCA|tabela do fabricante|INCC|INPC|FIPE)`)},
	{FieldFormasAquisicao, regexp.MustCompile(`(?i)(consórcio|compra direta|lance vinculado|lance livre)`)},
	{FieldContemplacoes, regexp.MustCompile(`(?i)(sorteio|lance livre|lance fixo|lance vinculado)`)},
	{FieldAntecipacoes, regexp.MustCompile(`(?i)(antecipação|observação)`)},
	{FieldParcelaAntecipada, regexp.MustCompile(`(?i)(parcela antecipada|% embutido|parcelamento)`)},
	{FieldDiluicaoLance, regexp.MustCompile(`(?i)(diluição do lance)`)},
	{FieldParcelaReduzida, regexp.MustCompile(`(?i)(parcela reduzida)`)},
	{FieldAumentoCredito, regexp.MustCompile(`(?i)(aumento de crédito|assembleia do grupo)`)},
	{FieldSeguroPrestamista, regexp.MustCompile(`(?i)(seguro prestamista)`)},
	{FieldObservacoes, regexp.MustCompile(`(?i)(\*.*)`)},
}

// Specs returns the fixed field table in declaration order. The slice is a
// copy; compiled patterns are safe for concurrent use.
func Specs() []FieldSpec {
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out
}

// Names returns the field names in declaration order
func Names() []string {
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}

// Columns returns the field names followed by FileColumn
func Columns() []string {
	return append(Names(), FileColumn)
}

// Lookup returns the spec with the given name
func Lookup(name string) (FieldSpec, bool) {
	for _, spec := range specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return FieldSpec{}, false
}
