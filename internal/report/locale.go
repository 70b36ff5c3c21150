package report

import (
	"strings"

	"github.com/demandhub/backend/internal/demand"
)

// Locale is the text set of one export language.
type Locale struct {
	Tag         string
	Labels      demand.Labels
	Kind        string // filename prefix
	Fallback    string // scope label when no scope is active
	Title       string
	IssuedLabel string
	DateLayout  string
	Headers     [8]string
}

// LocalePT is the default locale used by comarca staff.
var LocalePT = Locale{
	Tag:         "pt-BR",
	Labels:      demand.PortugueseLabels,
	Kind:        "Relatorio",
	Fallback:    "Geral",
	Title:       "Relatório de Demanda",
	IssuedLabel: "Emitido em",
	DateLayout:  "02/01/2006 15:04",
	Headers:     [8]string{"Região", "Comarca", "Categoria", "Material", "Previsão", "Qtd. Solicitada", "Qtd. Atendida", "Status"},
}

// LocaleEN keeps the engine's English tokens as labels.
var LocaleEN = Locale{
	Tag:         "en",
	Labels:      demand.EnglishLabels,
	Kind:        "Report",
	Fallback:    "General",
	Title:       "Demand Report",
	IssuedLabel: "Issued at",
	DateLayout:  "2006-01-02 15:04",
	Headers:     [8]string{"Region", "Comarca", "Category", "Material", "Forecast", "Requested", "Approved", "Status"},
}

// LocaleFor resolves a locale tag, falling back to pt-BR.
func LocaleFor(tag string) Locale {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "en" || strings.HasPrefix(t, "en-") || strings.HasPrefix(t, "en_") {
		return LocaleEN
	}
	return LocalePT
}
