package notify

import (
	"fmt"
	"strings"

	"hirepulse/internal/repository"
	"hirepulse/internal/usecase"
)

const descriptionPreviewLen = 200

var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
	"(", "\\(", ")", "\\)", "~", "\\~", "`", "\\`",
	">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}",
	".", "\\.", "!", "\\!",
)

// EscapeMarkdown escapes MarkdownV2 special characters in user-supplied text.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// FormatMatch renders the personalized vacancy notification in MarkdownV2.
func FormatMatch(user repository.UserPreference, m usecase.Match) string {
	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	if name == "" {
		name = "Коллега"
	}

	v := m.Vacancy

	var b strings.Builder
	fmt.Fprintf(&b, "*%s, для вас найдена подходящая вакансия\\!*\n\n", EscapeMarkdown(name))
	fmt.Fprintf(&b, "*%s*\n", EscapeMarkdown(v.Title))

	category := v.Category
	if category == "" {
		category = "Не указано"
	}
	fmt.Fprintf(&b, "%s\n\n", EscapeMarkdown(category))

	if v.Salary != "" {
		fmt.Fprintf(&b, "%s\n", EscapeMarkdown(v.Salary))
	}
	if v.WorkType != "" {
		fmt.Fprintf(&b, "%s\n", EscapeMarkdown(v.WorkType))
	}
	if v.Location != "" {
		fmt.Fprintf(&b, "%s\n", EscapeMarkdown(v.Location))
	}

	if v.Description != "" {
		desc := v.Description
		truncated := false
		if runes := []rune(desc); len(runes) > descriptionPreviewLen {
			desc = string(runes[:descriptionPreviewLen])
			truncated = true
		}
		fmt.Fprintf(&b, "\n%s", EscapeMarkdown(desc))
		if truncated {
			b.WriteString("\\.\\.\\.")
		}
		b.WriteString("\n")
	}

	if len(m.MatchedTags) > 0 {
		shown := m.MatchedTags
		if len(shown) > 5 {
			shown = shown[:5]
		}
		escaped := make([]string, 0, len(shown))
		for _, t := range shown {
			escaped = append(escaped, EscapeMarkdown(t))
		}
		fmt.Fprintf(&b, "\n*Совпадения:* %s \\(%d\\)\n", strings.Join(escaped, ", "), m.MatchCount)
	}

	b.WriteString("\n_Вакансия подобрана по вашим предпочтениям_")
	return b.String()
}

// MatchKeyboard builds the inline actions attached to every notification.
func MatchKeyboard(m usecase.Match) Keyboard {
	id := m.Vacancy.ID.String()
	return Keyboard{
		{{Label: "Посмотреть детали", Action: "detail_" + id}},
		{{Label: "Откликнуться", Action: "apply_" + id}},
		{{Label: "Мои подписки", Action: "my_subscriptions"}},
	}
}
