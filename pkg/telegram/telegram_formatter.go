package telegram

import (
	"fmt"
	"strings"
	"time"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/pkg/utils"
)

// actionIcon maps a recommendation action to its alert emoji.
func actionIcon(action string) string {
	switch action {
	case "BUY_TO_CLOSE", "SELL_TO_CLOSE":
		return "🔴"
	case "ROLL":
		return "🔄"
	case "SELL_NEW_CALL", "BUY_NEW_PUT", "ADD":
		return "🟢"
	default:
		return "🔔"
	}
}

// FormatScanSummaryMessage formats a scan result into a Markdown digest for
// Telegram, one section per scanner with its actionable recommendations.
func FormatScanSummaryMessage(result *dto.ScanResult, recs []dto.Recommendation) string {
	var sb strings.Builder

	sb.WriteString("📊 *Options Scan Summary*\n\n")
	sb.WriteString(fmt.Sprintf("🔍 Scanned: %d | 💾 Stored: %d | 🔔 Alerts: %d\n",
		result.Scanned, result.Stored, result.AlertsCreated))

	for _, report := range result.Reports {
		sb.WriteString(fmt.Sprintf("\n*- - - - - %s - - - - -*\n", report.Scanner))
		sb.WriteString(fmt.Sprintf("scanned %d | analyzed %d | skipped %d\n",
			report.Scanned, report.Analyzed, report.Skipped))

		for i := range recs {
			if recs[i].Strategy != report.Scanner || !recs[i].Actionable {
				continue
			}
			sb.WriteString(FormatOptionAlertMessage(&recs[i]))
			sb.WriteString("\n")
		}
	}

	if len(result.Errors) > 0 {
		sb.WriteString("\n⚠️ *Errors:*\n")
		for _, scanErr := range result.Errors {
			sb.WriteString(fmt.Sprintf("  - %s: %s\n", scanErr.Scanner, scanErr.Message))
		}
	}

	sb.WriteString(fmt.Sprintf("\n📅 _%s_\n", utils.PrettyDate(time.Now())))
	return sb.String()
}

// FormatOptionAlertMessage formats one actionable recommendation. The P/L
// keeps its sign so a losing position never reads as a gain.
func FormatOptionAlertMessage(rec *dto.Recommendation) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s *[%s]* %s `%s`\n", actionIcon(rec.Action), rec.Symbol, rec.Strategy, rec.Action))
	sb.WriteString(fmt.Sprintf("💰 P/L: %+.1f%% | ⏳ DTE: %d\n", rec.PLPercent, rec.DTE))
	if rec.Account != "" {
		sb.WriteString(fmt.Sprintf("🏦 Account: %s\n", rec.Account))
	}
	sb.WriteString(fmt.Sprintf("🧠 %s\n", rec.Reason))
	if rec.AssistantEvaluated && rec.AssistantReasoning != "" && rec.AssistantReasoning != rec.Reason {
		sb.WriteString(fmt.Sprintf("🤖 _%s_\n", rec.AssistantReasoning))
	}
	return sb.String()
}

// FormatErrorAlertMessage formats an operational failure notification.
func FormatErrorAlertMessage(t time.Time, errType string, errMsg string, data string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s

📄 Data: %s
`, utils.PrettyDate(t), errType, errMsg, data)
}
