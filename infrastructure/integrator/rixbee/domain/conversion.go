package rixbeedomain

// conversionFields mapeia o evento de conversão para a coluna behaviorN do relatório
var conversionFields = map[string]string{
	"ViewContent":          "behavior0",
	"CompleteCheckout":     "behavior1",
	"Checkout":             "behavior2",
	"Bookmark":             "behavior3",
	"AddToCart":            "behavior4",
	"Search":               "behavior5",
	"CompleteRegistration": "behavior6",
}

// ConversionFields traduz os eventos configurados na conta, ignorando os desconhecidos
func ConversionFields(events []string) []string {
	fields := make([]string, 0, len(events))
	for _, event := range events {
		if field, ok := conversionFields[event]; ok {
			fields = append(fields, field)
		}
	}
	return fields
}

// Conversions soma as colunas de conversão selecionadas
func (r Row) Conversions(fields []string) int64 {
	var total int64
	for _, field := range fields {
		total += r.Int(field)
	}
	return total
}
