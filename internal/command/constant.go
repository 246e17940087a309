package command

// Command literals
const (
	PrefixAsk    = "/ask"
	LiteralClear = "/clear"
)
