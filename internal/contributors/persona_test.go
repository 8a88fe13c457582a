package contributors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersonaForIsDeterministic(t *testing.T) {
	logins := []string{"mirabel-dev", "okabe-r", "ptero-dactyl", "quietriver"}

	for _, login := range logins {
		first := PersonaFor(login, "showcase-community")
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, PersonaFor(login, "showcase-community"),
				"persona for %s changed between calls", login)
		}
	}
}

func TestPersonaForOwner(t *testing.T) {
	p := PersonaFor("showcase-community", "showcase-community")
	assert.Equal(t, ownerPersona, p)

	// The owner persona never leaks to other logins, even ones that would
	// hash to any particular slot.
	other := PersonaFor("mirabel-dev", "showcase-community")
	assert.NotEqual(t, ownerPersona.Title, other.Title)
}

func TestPersonaForFieldsComeFromTables(t *testing.T) {
	p := PersonaFor("quietriver", "showcase-community")

	assert.Contains(t, personaTitles, p.Title)
	assert.Contains(t, personaDescriptions, p.Description)
	assert.Contains(t, personaAdjectives, p.Adjective)
	assert.Contains(t, personaElements, p.Element)
}

func TestPersonaHash(t *testing.T) {
	tests := []struct {
		login string
		want  int
	}{
		{"", 0},
		{"a", 97},
		{"ab", 97 + 98},
		{"ba", 97 + 98}, // order-insensitive by construction
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, personaHash(tt.login), "hash of %q", tt.login)
	}
}
