package analysis

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

const systemPrompt = `You are a senior software consultant who analyzes GitHub issues and gives practical technical advice to contributors deciding whether to take an issue on.

Return ONLY a JSON object with these fields:
- "summary": a short summary of the core problem
- "technicalAnalysis": the tech stack involved, likely causes and complexity
- "solutions": an array of two or three candidate solutions, each with an implementation outline
- "estimatedTime": the estimated effort to resolve the issue
- "requiredSkills": an array of the technical skills needed
- "priority": one of "high", "medium", "moderate", "normal", "beginner-friendly"

Text fields may use markdown. Return valid JSON only, no markdown fencing or explanation.`

// BuildPrompt returns the system and user prompts for analyzing an issue.
func BuildPrompt(issue *model.EvaluatedIssue) (system string, user string) {
	repo := issue.Repository

	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.Name)
	}

	var sb strings.Builder
	sb.WriteString("Analyze the following GitHub issue and write a detailed technical report.\n\n")
	fmt.Fprintf(&sb, "**Title**: %s\n\n", issue.Title)
	fmt.Fprintf(&sb, "**Description**: %s\n\n", orDefault(strings.TrimSpace(issue.Body), "No description provided"))
	sb.WriteString("**Repository**:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", repo.FullName)
	fmt.Fprintf(&sb, "- Language: %s\n", orDefault(repo.Language, "unknown"))
	fmt.Fprintf(&sb, "- Stars: %d\n", repo.Stars)
	fmt.Fprintf(&sb, "- Description: %s\n\n", orDefault(repo.Description, "none"))
	fmt.Fprintf(&sb, "**Labels**: %s\n", orDefault(strings.Join(labels, ", "), "none"))
	if issue.Difficulty != "" {
		fmt.Fprintf(&sb, "**Estimated difficulty**: %s\n", issue.Difficulty)
	}

	return systemPrompt, sb.String()
}

var (
	headingRe  = regexp.MustCompile(`(?m)^##\s+(.+?)\s*$`)
	listItemRe = regexp.MustCompile(`^(\d+\.|-|\*)\s+`)
)

// sectionFor maps a heading to an Analysis field name.
func sectionFor(heading string) string {
	h := strings.ToLower(heading)
	switch {
	case strings.Contains(h, "summary"):
		return "summary"
	case strings.Contains(h, "technical"):
		return "technical"
	case strings.Contains(h, "solution"):
		return "solutions"
	case strings.Contains(h, "time"), strings.Contains(h, "effort"):
		return "time"
	case strings.Contains(h, "skill"):
		return "skills"
	case strings.Contains(h, "priority"):
		return "priority"
	default:
		return ""
	}
}

// ParseSections parses a free-text markdown report with "## Summary",
// "## Technical Analysis", "## Solutions", "## Estimated Time" and
// "## Required Skills" headings. When neither a summary nor a technical
// analysis is found the raw content is kept as the technical analysis.
func ParseSections(content string) *model.Analysis {
	content = strings.TrimSpace(content)
	sections := make(map[string]string)

	locs := headingRe.FindAllStringSubmatchIndex(content, -1)
	for i, loc := range locs {
		name := sectionFor(content[loc[2]:loc[3]])
		if name == "" {
			continue
		}
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if _, dup := sections[name]; !dup {
			sections[name] = strings.TrimSpace(content[loc[1]:end])
		}
	}

	a := &model.Analysis{
		Summary:           sections["summary"],
		TechnicalAnalysis: sections["technical"],
		Solutions:         splitItems(sections["solutions"], false),
		EstimatedTime:     sections["time"],
		RequiredSkills:    splitItems(sections["skills"], true),
		Priority:          sections["priority"],
	}

	if a.Summary == "" && a.TechnicalAnalysis == "" {
		return &model.Analysis{
			Summary:           truncate(content, 200) + "...",
			TechnicalAnalysis: content,
			Solutions:         []string{"See the full analysis above"},
			EstimatedTime:     "To be assessed",
			RequiredSkills:    []string{"Depends on the specifics"},
		}
	}
	return a
}

// splitItems splits a markdown list into items. Lines that do not start a
// new item are folded into the previous one. With commas set, single-line
// comma separated text is split as well.
func splitItems(text string, commas bool) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var items []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if listItemRe.MatchString(trimmed) || len(items) == 0 {
			items = append(items, listItemRe.ReplaceAllString(trimmed, ""))
			continue
		}
		items[len(items)-1] += "\n" + trimmed
	}

	if commas && len(items) == 1 && strings.Contains(items[0], ",") {
		var split []string
		for _, s := range strings.Split(items[0], ",") {
			if s = strings.TrimSpace(s); s != "" {
				split = append(split, s)
			}
		}
		return split
	}
	return items
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
