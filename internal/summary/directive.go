package summary

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const systemPromptTemplate = `You write social media posts that announce new videos.
Write in %s. Style: %s.
Respond with a single JSON object and nothing else. It must have exactly two string fields:
"title": a short headline for the post.
"summary": the post body, plain text without markdown or HTML.`

// LanguageName renders a BCP 47 tag as an English language name ("de" ->
// "German"). Unparseable values are returned unchanged.
func LanguageName(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "English"
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	if name := display.English.Tags().Name(parsed); name != "" {
		return name
	}
	return tag
}

// Directive builds the system prompt for the given output language and style.
func Directive(lang, style string) string {
	style = strings.TrimSpace(style)
	if style == "" {
		style = "concise and informative"
	}
	return fmt.Sprintf(systemPromptTemplate, LanguageName(lang), style)
}

func audioPrompt(title string) string {
	if title = strings.TrimSpace(title); title == "" {
		return "Summarize the attached audio track of the video."
	}
	return fmt.Sprintf("Summarize the attached audio track of the video titled %q.", title)
}

func titlePrompt(title, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Video title: %s\n", strings.TrimSpace(title))
	if description = strings.TrimSpace(description); description != "" {
		fmt.Fprintf(&b, "Video description:\n%s\n", description)
	}
	b.WriteString("Summarize this video from its title and description.")
	return b.String()
}
