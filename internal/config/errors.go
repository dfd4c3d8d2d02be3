package config

import (
	"fmt"
	"strings"
)

// ConfigurationError é retornado por Validate quando o processo não consegue
// falar com o provedor de LLM da forma configurada.
type ConfigurationError struct {
	Missing []string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}
