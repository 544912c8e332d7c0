package output

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const markdownTopSeparator = "|------------------------------------------|--------------|\n"

// MarkdownFormatter renders reports as Markdown tables.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new Markdown formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the format name.
func (f *MarkdownFormatter) Name() string {
	return FormatMarkdown
}

// Format renders the report as Markdown.
func (f *MarkdownFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	var b strings.Builder

	b.WriteString("#### Общая информация\n\n")
	b.WriteString("| Метрика                 | Значение          \n")
	b.WriteString("|-------------------------|-------------------\n")
	fmt.Fprintf(&b, "| Файл(-ы)                | %s \n", report.Files())
	fmt.Fprintf(&b, "| Начальная дата          | %s \n", report.From())
	fmt.Fprintf(&b, "| Конечная дата           | %s \n", report.To())
	fmt.Fprintf(&b, "| Количество запросов     | %d \n", report.Stats.TotalRequests)
	fmt.Fprintf(&b, "| Средний размер ответа   | %s b \n", FormatSize(report.Stats.AvgResponseSize))
	fmt.Fprintf(&b, "| 95-й перцентиль размера | %s b \n", FormatSize(report.Stats.ResponseSizePercentile95))
	b.WriteString("\n\n")

	b.WriteString("#### Запрашиваемые ресурсы\n\n")
	b.WriteString("| Ресурс                                   | Количество        |\n")
	b.WriteString("|------------------------------------------|-------------------|\n")
	for _, row := range report.Resources() {
		fmt.Fprintf(&b, "| %-40s | %-15d   |\n", row.Key, row.Count)
	}
	b.WriteString("\n")

	b.WriteString("#### Коды ответа\n\n")
	b.WriteString("| Код | Имя                    | Количество   |\n")
	b.WriteString("|-----|------------------------|--------------|\n")
	for _, row := range report.Statuses() {
		fmt.Fprintf(&b, "| %-3d | %-22s | %-10d   |\n", row.Code, row.Reason, row.Count)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "#### Топ-%d IP-адресов по количеству запросов \n\n", report.TopLimit)
	b.WriteString("| Адрес                                    | Количество   |\n")
	b.WriteString(markdownTopSeparator)
	for _, row := range report.IPAddresses() {
		fmt.Fprintf(&b, "| %-40s | %-10d   |\n", row.Key, row.Count)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "#### Топ-%d дней по количеству запросов \n\n", report.TopLimit)
	b.WriteString("| Дата                                     | Количество   |\n")
	b.WriteString(markdownTopSeparator)
	for _, row := range report.Days() {
		fmt.Fprintf(&b, "| %-40s | %-10d   |\n", row.Key, row.Count)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
