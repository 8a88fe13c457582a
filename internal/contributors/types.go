package contributors

// Persona is a cosmetic, deterministically generated label set attached to a
// contributor for display purposes.
type Persona struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Adjective   string `json:"adjective"`
	Element     string `json:"element"`
}

// Contributor is a single entry in the contributor showcase.
type Contributor struct {
	Login         string  `json:"login"`
	AvatarURL     string  `json:"avatarUrl"`
	ProfileURL    string  `json:"profileUrl"`
	Contributions int     `json:"contributions"`
	Additions     int     `json:"additions"`
	Deletions     int     `json:"deletions"`
	Persona       Persona `json:"persona"`
}

// WeeklyStats aggregates a contributor's additions and deletions across all
// recorded weeks.
type WeeklyStats struct {
	Additions int
	Deletions int
}
