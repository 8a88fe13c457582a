package contributors

// fallbackContributors is the built-in list shown when both the live fetch
// and the cache are unavailable. The UI always renders something.
var fallbackContributors = []Contributor{
	{
		Login:         "showcase-community",
		AvatarURL:     "https://avatars.githubusercontent.com/u/0?v=4",
		ProfileURL:    "https://github.com/showcase-community",
		Contributions: 412,
	},
	{
		Login:         "mirabel-dev",
		AvatarURL:     "https://avatars.githubusercontent.com/u/1?v=4",
		ProfileURL:    "https://github.com/mirabel-dev",
		Contributions: 187,
	},
	{
		Login:         "okabe-r",
		AvatarURL:     "https://avatars.githubusercontent.com/u/2?v=4",
		ProfileURL:    "https://github.com/okabe-r",
		Contributions: 96,
	},
	{
		Login:         "ptero-dactyl",
		AvatarURL:     "https://avatars.githubusercontent.com/u/3?v=4",
		ProfileURL:    "https://github.com/ptero-dactyl",
		Contributions: 54,
	},
	{
		Login:         "quietriver",
		AvatarURL:     "https://avatars.githubusercontent.com/u/4?v=4",
		ProfileURL:    "https://github.com/quietriver",
		Contributions: 23,
	},
}

// FallbackContributors returns a copy of the built-in list.
func FallbackContributors() []Contributor {
	out := make([]Contributor, len(fallbackContributors))
	copy(out, fallbackContributors)
	return out
}
