// services/mention_service.go
package services

import "strings"

// mentionConfidence is recorded on every analyzed row; the matcher is
// deterministic so the value is constant.
const mentionConfidence = 95

type mentionService struct{}

func NewMentionService() MentionAnalyzer {
	return &mentionService{}
}

// Analyze scans answer text for the brand and each competitor using
// case-insensitive substring matching. Positions are 1-based line numbers
// of the first line containing the name.
func (s *mentionService) Analyze(content, brandName string, competitors []string) *MentionAnalysis {
	lines := strings.Split(content, "\n")

	analysis := &MentionAnalysis{Confidence: mentionConfidence}
	analysis.BrandMentioned, analysis.BrandPosition = findMention(lines, brandName)

	for _, competitor := range competitors {
		mentioned, position := findMention(lines, competitor)
		analysis.Competitors = append(analysis.Competitors, CompetitorMention{
			Name:      competitor,
			Mentioned: mentioned,
			Position:  position,
		})
	}

	return analysis
}

func findMention(lines []string, name string) (bool, *int) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return false, nil
	}
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), needle) {
			position := i + 1
			return true, &position
		}
	}
	return false, nil
}
