package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// level is the effort class used by the canned report. It is derived from
// labels alone and is independent of the evaluation engine's difficulty.
type level string

const (
	levelJunior       level = "junior"
	levelMid          level = "mid-level"
	levelUpperMid     level = "upper-mid"
	levelSenior       level = "senior"
	maxRequiredSkills       = 6
)

var timeEstimates = map[level]string{
	levelJunior:   "1-3 days",
	levelMid:      "3-7 days",
	levelUpperMid: "1-2 weeks",
	levelSenior:   "2-4 weeks",
}

var complexityNotes = map[level]string{
	levelJunior:   "**Low complexity.** Suitable for newcomers; mostly basic functionality or a simple fix with a clear path and good documentation.",
	levelMid:      "**Medium complexity.** Needs some experience; may touch several modules or performance. A basic grasp of the project architecture helps.",
	levelUpperMid: "**Elevated complexity.** Needs solid technical understanding; may involve design decisions or intricate business logic.",
	levelSenior:   "**High complexity.** Needs expert skills; may change core architecture or performance-critical paths.",
}

var timeBreakdowns = map[level]string{
	levelJunior:   "- **Research**: 30% (0.5-1 day)\n- **Environment setup**: 20% (0.5 day)\n- **Implementation**: 30% (1 day)\n- **Testing**: 20% (0.5 day)",
	levelMid:      "- **Requirements analysis**: 25% (1 day)\n- **Technical research**: 25% (1-2 days)\n- **Implementation**: 35% (2-3 days)\n- **Testing and polish**: 15% (1 day)",
	levelUpperMid: "- **Design**: 30% (2-3 days)\n- **Prototyping**: 20% (1-2 days)\n- **Core development**: 35% (3-5 days)\n- **Integration testing**: 15% (1-2 days)",
	levelSenior:   "- **Architecture design**: 35% (1 week)\n- **Hard problems**: 25% (3-5 days)\n- **Implementation**: 25% (1 week)\n- **Security testing**: 15% (2-3 days)",
}

var milestones = map[level]string{
	levelJunior:   "1. **Day 1**: set up the environment and understand the problem\n2. **Day 2**: implement the core change\n3. **Day 3**: test and update docs",
	levelMid:      "1. **Days 1-2**: analyze requirements and design the approach\n2. **Days 3-5**: build the core change\n3. **Days 6-7**: test, polish and go through review",
	levelUpperMid: "1. **Week 1**: research and design\n2. **Week 2**: implement the core change\n3. **Week 3**: integration tests and performance work",
	levelSenior:   "1. **Weeks 1-2**: architecture design and prototyping\n2. **Weeks 3-4**: core development\n3. **Weeks 5-6**: full testing and security review",
}

var solutionPlans = []string{
	`## Plan 1: In-depth analysis

### Research
- **Code review**: read the relevant sources and understand the current logic
- **Docs**: go through the project docs, API references and related specifications
- **Reproduce**: reproduce the problem locally and confirm the symptoms

### Steps
1. Clone the project and set up the development environment
2. Locate the root cause with a debugger
3. Design the fix from what you found
4. Implement it
5. Add tests proving the fix works

### Outcome
- A solid understanding of the problem
- A reliable fix
- Experience with the codebase`,
	`## Plan 2: Follow established practice

### Survey
- **Similar projects**: look for open source projects that solved the same problem
- **Community answers**: search GitHub and Stack Overflow for prior solutions
- **Articles**: read write-ups on the relevant techniques

### Adapt
1. Compare the candidate approaches
2. Adapt the best fit to this project
3. Check it meets the project's performance needs
4. Verify compatibility across supported environments

### Extras
- Tailor the approach to the project
- Improve the user experience along the way
- Keep future maintenance in mind`,
	`## Plan 3: Work with the community

### Communicate
- **Issue thread**: ask questions and share ideas on the issue
- **Maintainers**: reach out to maintainers for guidance
- **Community**: ask for help in relevant forums

### Collaborate
1. Confirm the exact requirements with maintainers
2. Discuss the possible implementations
3. Split the work with other contributors if it is large
4. Respond to review feedback on the PR
5. Iterate until it is merged

### Benefits
- Build relationships in the community
- Learn the project's contribution workflow
- Get more guidance and feedback`,
}

// TemplateGenerator produces a deterministic canned report from the issue
// fields. It never calls out to a model.
type TemplateGenerator struct{}

// NewTemplateGenerator creates a template generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Generate builds the canned report.
func (g *TemplateGenerator) Generate(ctx context.Context, issue *model.EvaluatedIssue) (*model.Analysis, error) {
	labels := issue.LabelNames()
	lvl := estimateLevel(labels)
	repo := issue.Repository

	summary := fmt.Sprintf(`## Overview

**"%s"** is a %s issue.

**Key points:**
- **Tech stack**: %s
- **Project scale**: %s project (%d stars)
- **Community**: %s (%d comments)

> Suited to developers with %s experience.`,
		issue.Title, lvl,
		orDefault(repo.Language, "web development"),
		projectScale(repo.Stars), repo.Stars,
		communityActivity(issue.Comments), issue.Comments,
		technologies(repo))

	technical := fmt.Sprintf(`## Technical analysis

### Project background

| Attribute | Details |
|---|---|
| **Project** | %s |
| **Primary language** | %s |
| **Scale** | %s |
| **Stars** | %d |
| **Community** | %s |

### Complexity

**Level**: %s

%s

### Requirements

%s

### Challenges

%s`,
		orDefault(repo.Description, "open source project"),
		orDefault(repo.Language, "JavaScript/TypeScript"),
		projectScale(repo.Stars), repo.Stars,
		communityActivity(issue.Comments),
		lvl, complexityNotes[lvl],
		strings.Join(requirements(repo.Language, labels), "\n"),
		strings.Join(challenges(lvl), "\n"))

	estimate := fmt.Sprintf(`## Effort

**Estimated time**: %s

### Breakdown

%s

### Milestones

%s`, timeEstimates[lvl], timeBreakdowns[lvl], milestones[lvl])

	return &model.Analysis{
		Summary:           summary,
		TechnicalAnalysis: technical,
		Solutions:         append([]string(nil), solutionPlans...),
		EstimatedTime:     estimate,
		RequiredSkills:    requiredSkills(repo.Language, labels),
		Priority:          priority(labels),
		Provider:          string(ProviderTemplate),
	}, nil
}

func estimateLevel(labels []string) level {
	switch {
	case anyContains(labels, "good first issue", "beginner"):
		return levelJunior
	case anyContains(labels, "bug"):
		return levelMid
	case anyContains(labels, "feature", "enhancement"):
		return levelUpperMid
	default:
		return levelMid
	}
}

func projectScale(stars int) string {
	switch {
	case stars > 10000:
		return "large"
	case stars > 1000:
		return "medium"
	default:
		return "small"
	}
}

func communityActivity(comments int) string {
	switch {
	case comments > 10:
		return "highly active"
	case comments > 3:
		return "moderately active"
	default:
		return "new issue"
	}
}

func technologies(repo model.Repository) string {
	var tech []string
	if repo.Language != "" {
		tech = append(tech, repo.Language)
	}

	name := strings.ToLower(repo.FullName)
	desc := strings.ToLower(repo.Description)
	hints := []struct{ key, label string }{
		{"react", "React"},
		{"vue", "Vue.js"},
		{"node", "Node.js"},
		{"typescript", "TypeScript"},
	}
	for _, h := range hints {
		if strings.Contains(name, h.key) || strings.Contains(desc, h.key) {
			tech = append(tech, h.label)
		}
	}

	if len(tech) == 0 {
		return "frontend development"
	}
	return strings.Join(tech, ", ")
}

func requirements(language string, labels []string) []string {
	var reqs []string
	if language != "" {
		reqs = append(reqs, fmt.Sprintf("- Fluency in **%s**", language))
	}
	if anyContains(labels, "frontend", "ui") {
		reqs = append(reqs, "- **Frontend stack** (HTML/CSS/JavaScript)", "- **Responsive design** and UX")
	}
	if anyContains(labels, "backend", "api") {
		reqs = append(reqs, "- **Backend development** and API design", "- **Database** work and tuning")
	}
	if anyContains(labels, "test") {
		reqs = append(reqs, "- **Test frameworks** and test-driven development")
	}
	if anyContains(labels, "doc") {
		reqs = append(reqs, "- **Technical writing**")
	}
	return append(reqs, "- **Debugging** and root-cause analysis", "- Reading **technical documentation**")
}

func challenges(lvl level) []string {
	switch lvl {
	case levelJunior:
		return []string{
			"- **Learning curve**: getting familiar with the project layout and workflow",
			"- **Environment**: the development setup may be involved",
		}
	case levelMid:
		return []string{
			"- **Architecture**: understanding the overall design",
			"- **Module boundaries**: the change may span several modules",
			"- **Performance**: weighing the impact of the change",
		}
	default:
		return []string{
			"- **Core logic**: the change may touch core business logic",
			"- **Compatibility**: existing behavior must keep working",
			"- **Extensibility**: the fix should leave room for future needs",
			"- **Coordination**: several maintainers may need to agree",
		}
	}
}

func requiredSkills(language string, labels []string) []string {
	var skills []string
	if language != "" {
		skills = append(skills, language+" programming")
	}
	skills = append(skills, "Git", "Problem analysis", "Debugging")

	if anyContains(labels, "frontend", "ui") {
		skills = append(skills, "Frontend development", "CSS/HTML")
	}
	if anyContains(labels, "backend", "api") {
		skills = append(skills, "Backend development", "API design")
	}
	if anyContains(labels, "test") {
		skills = append(skills, "Unit testing")
	}
	if anyContains(labels, "doc") {
		skills = append(skills, "Technical writing")
	}

	if len(skills) > maxRequiredSkills {
		skills = skills[:maxRequiredSkills]
	}
	return skills
}

func priority(labels []string) string {
	switch {
	case anyContains(labels, "critical", "urgent"):
		return "high"
	case anyContains(labels, "bug"):
		return "medium"
	case anyContains(labels, "enhancement", "feature"):
		return "moderate"
	case anyContains(labels, "good first issue", "beginner"):
		return "beginner-friendly"
	default:
		return "normal"
	}
}

func anyContains(labels []string, keywords ...string) bool {
	for _, l := range labels {
		for _, kw := range keywords {
			if strings.Contains(l, kw) {
				return true
			}
		}
	}
	return false
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
