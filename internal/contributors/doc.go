// Package contributors produces the contributor showcase list.
//
// Records come from the public source-hosting API, enriched with a
// deterministically generated persona per login. Results are cached in a
// single JSON file with a 5-minute TTL; on fetch failure the service falls
// back to the stale cache and then to a built-in list, so the page always
// renders something.
package contributors
