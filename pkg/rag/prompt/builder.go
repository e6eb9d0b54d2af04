package prompt

import (
	"fmt"
	"strings"

	"content-engine-be/internal/entity"

	"github.com/samber/lo"
)

const (
	noCompanyVoice  = "No company voice rules configured yet."
	noPersonalVoice = "No personal voice rules configured yet."
	noPlatformVoice = "No platform-specific rules configured yet."
	noBucketSources = "No sources in this bucket yet."

	// Used when the bucket lane has sources but its name could not be resolved.
	unnamedBucket = "Current Bucket"

	sourceDateLayout = "1/2/2006"
)

type ExploreInput struct {
	UserName      string
	PersonalVoice []string
	CompanyVoice  []string
	BucketName    *string
	Pinned        []*entity.RetrievedSource
	Bucket        []*entity.RetrievedSource
	Semantic      []*entity.RetrievedSource
}

type DraftInput struct {
	UserName      string
	PersonalVoice []string
	CompanyVoice  []string
	PlatformVoice []string
	Platform      entity.Platform
}

// BuildExplorePrompt renders the Explore system prompt. Voice sections always
// render; source sections only when they have something to show.
func BuildExplorePrompt(in ExploreInput) string {
	var prompt strings.Builder

	writeExploreRole(&prompt, in.UserName)
	writeVoice(&prompt, "Company Voice", in.CompanyVoice, noCompanyVoice)
	prompt.WriteString("\n\n")
	writeVoice(&prompt, fmt.Sprintf("%s's Personal Voice", in.UserName), in.PersonalVoice, noPersonalVoice)

	if len(in.Pinned) > 0 {
		prompt.WriteString("\n\n## Pinned Sources (User-Selected)\n")
		prompt.WriteString("The user specifically selected these sources as relevant to this conversation. Pay special attention to them.\n\n")
		for _, s := range in.Pinned {
			writeSource(&prompt, s, false)
		}
	}

	if in.BucketName != nil || len(in.Bucket) > 0 {
		name := lo.FromPtrOr(in.BucketName, unnamedBucket)
		fmt.Fprintf(&prompt, "\n\n## Source Material — \"%s\"\n", name)
		if len(in.Bucket) == 0 {
			prompt.WriteString(noBucketSources + "\n")
		}
		for _, s := range in.Bucket {
			writeSource(&prompt, s, false)
		}
	}

	if len(in.Semantic) > 0 {
		prompt.WriteString("\n\n## Additional Sources (Other Buckets)\n")
		for _, s := range in.Semantic {
			writeSource(&prompt, s, true)
		}
	}

	return prompt.String()
}

// BuildDraftPrompt renders the Draft system prompt for one platform.
func BuildDraftPrompt(in DraftInput) string {
	var prompt strings.Builder

	writeDraftRole(&prompt)
	writeVoice(&prompt, "Company Voice", in.CompanyVoice, noCompanyVoice)
	prompt.WriteString("\n\n")
	writeVoice(&prompt, fmt.Sprintf("%s's Personal Voice", in.UserName), in.PersonalVoice, noPersonalVoice)
	prompt.WriteString("\n\n")
	writeVoice(&prompt, fmt.Sprintf("Platform: %s", in.Platform), in.PlatformVoice, noPlatformVoice)
	prompt.WriteString("\n\n")
	writeDraftFormat(&prompt, in.Platform)

	return prompt.String()
}

func writeExploreRole(prompt *strings.Builder, userName string) {
	prompt.WriteString("## Role\n")
	fmt.Fprintf(prompt, "You are in EXPLORE mode. You are a content strategist working with %s. ", userName)
	prompt.WriteString("Your job is to help find the angle, connect ideas, and brainstorm narrative structures across their source material.\n\n")

	prompt.WriteString("## How You Work\n")
	prompt.WriteString("- Help find angles, connections, and narratives across source material\n")
	prompt.WriteString("- Identify contrarian takes, surprising connections, and strong theses\n")
	prompt.WriteString("- Reference specific sources when building arguments — quote or paraphrase so the user knows what material you're drawing from\n")
	prompt.WriteString("- " + originalMaterialRule + "\n")
	prompt.WriteString("- Be direct and collaborative — this is a working session, not a formal interaction\n")
	prompt.WriteString("- Do NOT write full drafts. That happens in Draft mode. You can sketch rough outlines or suggest structures, but stop short of polished prose\n\n")
}

func writeDraftRole(prompt *strings.Builder) {
	prompt.WriteString("## Role\n")
	prompt.WriteString("You are in DRAFT mode. Your job is to write compelling platform-specific content. Follow the voice profile and platform rules strictly.\n\n")

	prompt.WriteString("## How You Work\n")
	prompt.WriteString("- Write content based on the conversation so far. The conversation may include prior Explore-mode discussion where ideas, angles, and source material were discussed — build on that context.\n")
	prompt.WriteString("- " + originalMaterialRule + "\n")
	prompt.WriteString("- Follow the voice profile rules strictly — these define the writing style.\n")
	prompt.WriteString("- When producing or updating a draft, ALWAYS wrap it in <draft> tags (see Draft Format below). This is how the application extracts your draft content.\n")
	prompt.WriteString("- Be direct and collaborative — explain your creative choices briefly, and ask for feedback after presenting the draft.\n")
	prompt.WriteString("- When the user asks for revisions, produce a complete updated draft (not just the changed parts). Always wrap the full updated draft in <draft> tags.\n")
	prompt.WriteString("- When the user asks to adapt for a different platform, write a fresh draft following that platform's rules.\n\n")
}

const originalMaterialRule = "Distinguish between the user's ORIGINAL thoughts (notes, voice memos) and EXTERNAL material (articles, tweets, podcast notes, article clips). Prioritize the user's voice — their ideas should drive the content"

func writeDraftFormat(prompt *strings.Builder, platform entity.Platform) {
	prompt.WriteString("## Draft Format\n")
	prompt.WriteString("When you produce or update a draft, wrap it in these exact delimiters:\n\n")
	fmt.Fprintf(prompt, "<draft platform=\"%s\" title=\"{title}\">\n", platform)
	prompt.WriteString("[Your draft content in markdown]\n")
	prompt.WriteString("</draft>\n\n")

	prompt.WriteString("Rules:\n")
	prompt.WriteString("- ALWAYS include these delimiters when producing or updating draft content\n")
	fmt.Fprintf(prompt, "- The platform attribute should match the current platform (%s)\n", platform)
	prompt.WriteString("- The title should be a short, descriptive title for the draft\n")
	prompt.WriteString("- Continue your conversational response OUTSIDE the delimiters\n")
	prompt.WriteString("- You can include commentary before or after the draft explaining your choices or asking for feedback\n")
	prompt.WriteString("- When revising, produce the COMPLETE updated draft, not just changes")
}

func writeVoice(prompt *strings.Builder, heading string, rules []string, fallback string) {
	fmt.Fprintf(prompt, "## %s\n", heading)
	if len(rules) == 0 {
		prompt.WriteString(fallback)
		return
	}
	prompt.WriteString(strings.Join(lo.Map(rules, func(rule string, _ int) string {
		return "- " + rule
	}), "\n"))
}

// writeSource renders one entry between horizontal rules.
func writeSource(prompt *strings.Builder, s *entity.RetrievedSource, withBucketLabel bool) {
	if s == nil || s.Source == nil {
		return
	}

	prompt.WriteString("---\n")
	if withBucketLabel && s.BucketName != nil {
		fmt.Fprintf(prompt, "[From: %s] ", *s.BucketName)
	}
	fmt.Fprintf(prompt, "[%s] (%s)\n", s.Source.SourceType, s.Source.CreatedAt.Format(sourceDateLayout))
	prompt.WriteString(s.Source.Content + "\n")
	if s.Source.SourceUrl != nil && *s.Source.SourceUrl != "" {
		fmt.Fprintf(prompt, "URL: %s\n", *s.Source.SourceUrl)
	}
	prompt.WriteString("---\n\n")
}
