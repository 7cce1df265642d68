package quizgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// decoded quiz. They execute in order; the first failure stops the
	// pipeline and nothing is stored.
	Validators []Validator

	// Curriculum, when set, pins the questions to an education system.
	Curriculum string

	// MaxTokens is the token budget for the reply. Zero leaves it to the
	// provider's default.
	MaxTokens int

	// Temperature controls output randomness. Zero leaves it to the
	// provider's default.
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&SchemaValidator{},
			&StructuralValidator{},
		},
		Curriculum: "Malaysian Education system",
	}
}
