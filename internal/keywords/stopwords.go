package keywords

// stopWords filters common English words that add noise to keyword
// matching. The list covers function words plus generic job-posting
// filler ("team", "role", "candidate") that would otherwise inflate
// every score.
var stopWords = map[string]bool{
	// Articles, conjunctions, prepositions
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"into": true, "onto": true, "over": true, "under": true, "about": true,
	"above": true, "after": true, "again": true, "against": true,
	"along": true, "among": true, "around": true, "before": true,
	"behind": true, "below": true, "between": true, "beyond": true,
	"but": true, "nor": true, "not": true, "off": true, "out": true,
	"per": true, "than": true, "through": true, "until": true,
	"upon": true, "via": true, "within": true, "without": true,

	// Pronouns and determiners
	"you": true, "your": true, "yours": true, "our": true, "ours": true,
	"their": true, "theirs": true, "they": true, "them": true,
	"his": true, "her": true, "hers": true, "its": true, "who": true,
	"whom": true, "whose": true, "which": true, "what": true,
	"this": true, "that": true, "these": true, "those": true,
	"all": true, "any": true, "both": true, "each": true, "few": true,
	"more": true, "most": true, "other": true, "some": true, "such": true,
	"own": true, "same": true, "every": true,

	// Verbs and auxiliaries
	"are": true, "was": true, "were": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "having": true, "does": true,
	"did": true, "doing": true, "will": true, "would": true,
	"should": true, "could": true, "can": true, "cannot": true,
	"may": true, "might": true, "must": true, "shall": true,
	"get": true, "gets": true, "got": true, "make": true, "makes": true,
	"made": true, "take": true, "takes": true, "use": true, "uses": true,
	"used": true, "using": true, "include": true, "includes": true,
	"including": true, "want": true, "need": true, "needs": true,
	"look": true, "looking": true, "help": true, "like": true,

	// Adverbs and qualifiers
	"also": true, "just": true, "only": true, "very": true, "too": true,
	"how": true, "when": true, "where": true, "why": true, "then": true,
	"there": true, "here": true, "now": true, "well": true, "much": true,
	"many": true, "even": true, "still": true, "yet": true, "ever": true,
	"never": true, "always": true, "often": true, "once": true,
	"highly": true, "etc": true,

	// Generic job-posting filler
	"job": true, "role": true, "position": true, "candidate": true,
	"candidates": true, "applicant": true, "team": true, "teams": true,
	"company": true, "work": true, "working": true, "works": true,
	"join": true, "hire": true, "hiring": true, "apply": true,
	"opportunity": true, "opportunities": true, "responsibilities": true,
	"responsibility": true, "requirement": true, "requirements": true,
	"required": true, "require": true, "preferred": true, "plus": true,
	"ability": true, "able": true, "strong": true, "good": true,
	"great": true, "excellent": true, "new": true, "year": true,
	"years": true, "day": true, "days": true, "time": true,
	"experience": true, "experienced": true, "skill": true,
	"skills": true, "knowledge": true, "familiarity": true,
	"familiar": true, "understanding": true, "proficiency": true,
	"proficient": true, "bonus": true, "nice": true, "ideal": true,
	"offer": true, "offers": true, "benefit": true, "benefits": true,
	"salary": true,
}

// IsStopWord reports whether a lowercase token is on the stopword list.
func IsStopWord(token string) bool {
	return stopWords[token]
}
