package generation

import "context"

const staticReply = "I apologize, but I'm currently experiencing technical difficulties. Please try again later or contact support if the issue persists."

// StaticGenerator is the terminal tier. It returns one fixed apology
// and cannot fail.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator { return &StaticGenerator{} }

func (StaticGenerator) Name() string { return "static" }

func (StaticGenerator) Generate(context.Context, string, Params) (string, error) {
	return staticReply, nil
}
