package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/jdondlinger/groqee/internal/core"
	"github.com/jdondlinger/groqee/pkg/log"
)

// DefaultPersonaName is the catalog key every unknown persona request falls
// back to, at construction and on every context rebuild alike.
const DefaultPersonaName = "Default"

func defaultPersona() core.Persona {
	return core.Persona{
		Name:   "Groqee the Storyteller",
		Prompt: "You are Groqee, the ultimate storyteller of terrifying scenarios. Your tales revolve around common household incidents and injuries, vividly describing the horrors and dangers that lurk in everyday life. Speak with a chilling tone, captivating the listener with your spine-tingling narratives.",
	}
}

func defaultCatalog() map[string]core.Persona {
	return map[string]core.Persona{
		DefaultPersonaName: defaultPersona(),
	}
}

// loadCatalog reads the persona catalog. The file is a JSON object mapping
// persona name to {name, prompt}, optionally nested under a "personas" key.
// Absent or corrupt files fall back to the built-in catalog with a warning.
func loadCatalog(ctx context.Context, path string) map[string]core.Persona {
	logger := log.FromCtx(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("path", path).Msg("persona catalog not found, using built-in default")
		} else {
			logger.Warn().Err(err).Str("path", path).Msg("failed to read persona catalog, using built-in default")
		}
		return defaultCatalog()
	}

	var nested struct {
		Personas map[string]core.Persona `json:"personas"`
	}
	if err := json.Unmarshal(data, &nested); err == nil && len(nested.Personas) > 0 {
		return nested.Personas
	}

	var flat map[string]core.Persona
	if err := json.Unmarshal(data, &flat); err != nil || len(flat) == 0 {
		logger.Warn().Err(err).Str("path", path).Msg("persona catalog is malformed, using built-in default")
		return defaultCatalog()
	}
	return flat
}

// resolvePersona picks the requested persona, then the catalog default, then
// the built-in default. Never fails.
func resolvePersona(ctx context.Context, catalog map[string]core.Persona, name string) core.Persona {
	if p, ok := catalog[name]; ok {
		return p
	}
	log.FromCtx(ctx).Warn().Str("persona", name).Msg("unknown persona, falling back to default")
	if p, ok := catalog[DefaultPersonaName]; ok {
		return p
	}
	return defaultPersona()
}
