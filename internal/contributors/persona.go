package contributors

var personaTitles = []string{
	"Pixel Alchemist",
	"Code Gardener",
	"Night Owl",
	"Bug Whisperer",
	"Merge Wizard",
	"Refactor Monk",
	"Docs Bard",
	"Release Captain",
}

var personaDescriptions = []string{
	"Turns rough ideas into polished features.",
	"Tends the codebase one small commit at a time.",
	"Ships the fixes everyone else sleeps through.",
	"Finds the bug before the bug finds you.",
	"Keeps every branch flowing toward main.",
	"Leaves every file cleaner than they found it.",
	"Writes the words that make the code make sense.",
	"Gets the build out the door, every time.",
}

var personaAdjectives = []string{
	"curious", "steady", "bold", "meticulous",
	"playful", "relentless", "quiet", "inventive",
}

var personaElements = []string{
	"fire", "water", "earth", "wind", "light", "shadow",
}

// ownerPersona is the fixed persona for the designated repository owner.
var ownerPersona = Persona{
	Title:       "Founding Keeper",
	Description: "Planted the first commit and still tends the whole garden.",
	Adjective:   "unwavering",
	Element:     "aether",
}

// personaHash is a simple character-code sum. The distribution is cosmetic;
// only determinism (same login always yields the same persona) matters.
func personaHash(login string) int {
	sum := 0
	for _, r := range login {
		sum += int(r)
	}
	return sum
}

// PersonaFor derives a persona from a login. The designated owner always
// receives the fixed owner persona.
func PersonaFor(login, owner string) Persona {
	if login == owner {
		return ownerPersona
	}

	h := personaHash(login)
	return Persona{
		Title:       personaTitles[h%len(personaTitles)],
		Description: personaDescriptions[h%len(personaDescriptions)],
		Adjective:   personaAdjectives[h%len(personaAdjectives)],
		Element:     personaElements[h%len(personaElements)],
	}
}
