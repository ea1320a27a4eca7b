package translate

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported message languages. The first is the fallback.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

// Messages of the classic simulator, in its original Brazilian Portuguese.
var ptBR = map[string]string{
	"Simulation complete. Generated files:": "Simulação concluída. Arquivos gerados:",
	"line %d %v":                            "linha %d %v",
	"opcode invalid":                        "instrução inválida",
	"%v: cannot open program":               "%v: erro ao abrir arquivo",
	"program is empty":                      "programa vazio",
}

func loadCatalog() {
	for key, msg := range ptBR {
		_ = message.SetString(language.BrazilianPortuguese, key, msg)
		_ = message.SetString(language.AmericanEnglish, key, key)
	}
}
