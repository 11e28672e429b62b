package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/alimgiray/coursescope/internal/repositories"
)

// DefaultSuggestionThreshold is the minimum similarity a suggestion needs
const DefaultSuggestionThreshold = 0.7

// AliasSuggestion proposes merging a git author name into a GitHub login
type AliasSuggestion struct {
	Source     string  `json:"source_author"`
	Target     string  `json:"target_author"`
	Similarity float64 `json:"similarity"`
}

// AliasSuggestionService matches commit identities against GitHub logins. Students
// often commit as "Alice Smith" while their issues and reviews show up as "asmith".
type AliasSuggestionService struct {
	statisticsService *StatisticsService
	aliasRepo         *repositories.AuthorAliasRepository
}

func NewAliasSuggestionService(statisticsService *StatisticsService, aliasRepo *repositories.AuthorAliasRepository) *AliasSuggestionService {
	return &AliasSuggestionService{
		statisticsService: statisticsService,
		aliasRepo:         aliasRepo,
	}
}

// SuggestForProject proposes aliases for every commit author of the project that is
// neither a GitHub login nor aliased already
func (s *AliasSuggestionService) SuggestForProject(ctx context.Context, projectID string, threshold float64) ([]AliasSuggestion, error) {
	sources, err := s.statisticsService.LoadSources(ctx, StatisticsQuery{ProjectID: projectID})
	if err != nil {
		return nil, err
	}

	aliases, err := s.aliasRepo.GetAliasMap(projectID)
	if err != nil {
		return nil, err
	}

	var identities []string
	for _, author := range sources.Commits.DistinctAuthors() {
		if _, aliased := aliases[author]; !aliased {
			identities = append(identities, author)
		}
	}

	return s.Suggest(identities, sources.Activity.DistinctAuthors(), threshold), nil
}

// Suggest pairs each identity with its most similar login when the similarity
// reaches threshold. Identities that already are logins are skipped. Results are
// ordered by similarity, highest first.
func (s *AliasSuggestionService) Suggest(identities, logins []string, threshold float64) []AliasSuggestion {
	isLogin := make(map[string]bool, len(logins))
	for _, login := range logins {
		isLogin[login] = true
	}

	var suggestions []AliasSuggestion
	for _, identity := range identities {
		if isLogin[identity] {
			continue
		}

		best := AliasSuggestion{Source: identity}
		for _, login := range logins {
			if similarity := s.Similarity(identity, login); similarity > best.Similarity {
				best.Target = login
				best.Similarity = similarity
			}
		}
		if best.Target != "" && best.Similarity >= threshold {
			suggestions = append(suggestions, best)
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Similarity != suggestions[j].Similarity {
			return suggestions[i].Similarity > suggestions[j].Similarity
		}
		return suggestions[i].Source < suggestions[j].Source
	})
	return suggestions
}

// Similarity scores an author name against a login between 0 (unrelated) and 1
// (same person for sure)
func (s *AliasSuggestionService) Similarity(identity, login string) float64 {
	a, b := normalizeName(identity), normalizeName(login)
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	distance := levenshteinDistance([]rune(a), []rune(b))
	longest := max(len([]rune(a)), len([]rune(b)))
	similarity := 1.0 - float64(distance)/float64(longest)

	if strings.Contains(a, b) || strings.Contains(b, a) {
		similarity += 0.2
	}
	similarity += nameBonus(identity, b)

	return math.Min(1.0, similarity)
}

// nameBonus rewards the usual ways a login is derived from a full name:
// "Alice Smith" -> "asmith", "alices", "alice", "smith"
func nameBonus(identity, login string) float64 {
	parts := strings.FieldsFunc(strings.ToLower(identity), func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == '_' || r == '-'
	})

	bonus := 0.0
	if len(parts) >= 2 {
		first, last := []rune(parts[0]), []rune(parts[len(parts)-1])
		if string(first[:1])+string(last) == login || string(first)+string(last[:1]) == login {
			bonus += 0.3
		}
	}
	for _, part := range parts {
		if part == login {
			bonus += 0.15
			break
		}
	}
	return bonus
}

// normalizeName lowercases and keeps letters and digits only
func normalizeName(str string) string {
	var result strings.Builder
	for _, r := range strings.ToLower(str) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func levenshteinDistance(a, b []rune) int {
	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := range previous {
		previous[j] = j
	}

	for i := 1; i <= len(a); i++ {
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current[j] = min(
				previous[j]+1,      // deletion
				current[j-1]+1,     // insertion
				previous[j-1]+cost, // substitution
			)
		}
		previous, current = current, previous
	}

	return previous[len(b)]
}
