package output

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const adocBorder = "|===\n"

// ADocFormatter renders reports as AsciiDoc tables.
type ADocFormatter struct{}

// NewADocFormatter creates a new AsciiDoc formatter.
func NewADocFormatter() *ADocFormatter {
	return &ADocFormatter{}
}

// Name returns the format name.
func (f *ADocFormatter) Name() string {
	return FormatADoc
}

// Format renders the report as AsciiDoc.
func (f *ADocFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	var b strings.Builder

	b.WriteString("== Общая информация\n\n")
	b.WriteString(adocBorder)
	b.WriteString("| Метрика                 | Значение\n")
	fmt.Fprintf(&b, "| Файл(-ы)                | %s\n", report.Files())
	fmt.Fprintf(&b, "| Начальная дата          | %s\n", report.From())
	fmt.Fprintf(&b, "| Конечная дата           | %s\n", report.To())
	fmt.Fprintf(&b, "| Количество запросов     | %d\n", report.Stats.TotalRequests)
	fmt.Fprintf(&b, "| Средний размер ответа   | %s b\n", FormatSize(report.Stats.AvgResponseSize))
	fmt.Fprintf(&b, "| 95-й перцентиль размера | %s b\n", FormatSize(report.Stats.ResponseSizePercentile95))
	b.WriteString(adocBorder + "\n")

	b.WriteString("== Запрашиваемые ресурсы\n\n")
	b.WriteString(adocBorder)
	b.WriteString("| Ресурс                                   | Количество\n")
	for _, row := range report.Resources() {
		fmt.Fprintf(&b, "| %-40s | %-10d\n", row.Key, row.Count)
	}
	b.WriteString(adocBorder + "\n")

	b.WriteString("== Коды ответа\n\n")
	b.WriteString(adocBorder)
	b.WriteString("| Код | Имя                    | Количество\n")
	for _, row := range report.Statuses() {
		fmt.Fprintf(&b, "| %-3d | %-22s | %d\n", row.Code, row.Reason, row.Count)
	}
	b.WriteString(adocBorder + "\n")

	fmt.Fprintf(&b, "== Топ-%d IP-адресов по количеству запросов \n\n", report.TopLimit)
	b.WriteString(adocBorder)
	b.WriteString("| Адрес                                    | Количество   \n")
	for _, row := range report.IPAddresses() {
		fmt.Fprintf(&b, "| %-40s | %-10d\n", row.Key, row.Count)
	}
	b.WriteString(adocBorder + "\n")

	fmt.Fprintf(&b, "== Топ-%d дней по количеству запросов \n\n", report.TopLimit)
	b.WriteString(adocBorder)
	b.WriteString("| Дата                                     | Количество   \n")
	for _, row := range report.Days() {
		fmt.Fprintf(&b, "| %-40s | %-10d\n", row.Key, row.Count)
	}
	b.WriteString(adocBorder)

	_, err := io.WriteString(w, b.String())
	return err
}
