package scoring

// strictCoreTerms is the closed list of specific named technologies. A
// query word on this list that fails to match the content vetoes the whole
// record: if you name a technology, content that never mentions it is not
// relevant.
var strictCoreTerms = map[string]bool{
	"angular":       true,
	"ansible":       true,
	"aws":           true,
	"azure":         true,
	"bash":          true,
	"cargo":         true,
	"django":        true,
	"docker":        true,
	"elasticsearch": true,
	"fastapi":       true,
	"flask":         true,
	"gcp":           true,
	"git":           true,
	"github":        true,
	"gitlab":        true,
	"golang":        true,
	"grafana":       true,
	"graphql":       true,
	"grpc":          true,
	"jenkins":       true,
	"jest":          true,
	"jwt":           true,
	"kafka":         true,
	"kotlin":        true,
	"kubernetes":    true,
	"lambda":        true,
	"laravel":       true,
	"mongodb":       true,
	"mysql":         true,
	"nextjs":        true,
	"nginx":         true,
	"npm":           true,
	"oauth":         true,
	"postgres":      true,
	"postgresql":    true,
	"prometheus":    true,
	"pytest":        true,
	"python":        true,
	"rails":         true,
	"react":         true,
	"redis":         true,
	"rust":          true,
	"sqlite":        true,
	"stripe":        true,
	"svelte":        true,
	"swift":         true,
	"tailwind":      true,
	"terraform":     true,
	"typescript":    true,
	"vite":          true,
	"vue":           true,
	"webpack":       true,
}

// genericTerms are words too common in conversational logs to carry
// supporting weight on their own. Kept broad on purpose: a supporting term
// must be notable, not merely long.
var genericTerms = map[string]bool{
	"about":      true,
	"actually":   true,
	"after":      true,
	"again":      true,
	"always":     true,
	"another":    true,
	"anything":   true,
	"around":     true,
	"based":      true,
	"because":    true,
	"before":     true,
	"being":      true,
	"better":     true,
	"change":     true,
	"changes":    true,
	"check":      true,
	"could":      true,
	"current":    true,
	"doing":      true,
	"different":  true,
	"every":      true,
	"everything": true,
	"first":      true,
	"going":      true,
	"great":      true,
	"having":     true,
	"hello":      true,
	"helps":      true,
	"inside":     true,
	"instead":    true,
	"issue":      true,
	"issues":     true,
	"lets":       true,
	"looked":     true,
	"looking":    true,
	"looks":      true,
	"maybe":      true,
	"might":      true,
	"needs":      true,
	"never":      true,
	"other":      true,
	"people":     true,
	"perhaps":    true,
	"place":      true,
	"please":     true,
	"point":      true,
	"pretty":     true,
	"problem":    true,
	"really":     true,
	"right":      true,
	"should":     true,
	"simple":     true,
	"since":      true,
	"small":      true,
	"something":  true,
	"still":      true,
	"stuff":      true,
	"sure":       true,
	"thanks":     true,
	"their":      true,
	"there":      true,
	"these":      true,
	"thing":      true,
	"things":     true,
	"think":      true,
	"those":      true,
	"through":    true,
	"trying":     true,
	"under":      true,
	"until":      true,
	"using":      true,
	"wanted":     true,
	"wants":      true,
	"where":      true,
	"which":      true,
	"while":      true,
	"whole":      true,
	"without":    true,
	"working":    true,
	"works":      true,
	"would":      true,
	"wrong":      true,
}

// stopWords filter "significant" terms for intent keywords and similarity
// gating. Smaller than genericTerms: similarity only needs to drop filler.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "but": true,
	"can": true, "did": true, "do": true, "does": true, "for": true,
	"from": true, "get": true, "has": true, "have": true, "how": true,
	"in": true, "into": true, "is": true, "it": true, "of": true,
	"on": true, "or": true, "that": true, "the": true, "this": true,
	"to": true, "was": true, "what": true, "when": true, "where": true,
	"which": true, "who": true, "why": true, "will": true, "with": true,
	"you": true, "your": true,
}

// IsStrictCore reports whether the word names a specific technology.
func IsStrictCore(word string) bool { return strictCoreTerms[word] }

// IsGeneric reports whether the word is on the generic exclusion list.
func IsGeneric(word string) bool { return genericTerms[word] }

// IsStopWord reports whether the word is filler.
func IsStopWord(word string) bool { return stopWords[word] }
