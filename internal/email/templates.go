package email

import (
	"fmt"

	"configly/internal/models"
)

// QuoteConfirmation builds the customer-facing confirmation sent when a
// quote is created. The quote code in the body is the customer's only
// handle on the quote.
func QuoteConfirmation(quote *models.Quote) Message {
	total := quote.TotalPrice.StringFixed(2)
	return Message{
		ToName:  quote.CustomerName,
		ToEmail: quote.CustomerEmail,
		Subject: fmt.Sprintf("Your quote %s", quote.QuoteCode),
		Text: fmt.Sprintf(
			"Thanks for your request!\n\nYour quote code is %s and the total comes to %s %s.\nUse the code to view your quote at any time.\n",
			quote.QuoteCode, total, quote.CurrencyCode),
		HTML: fmt.Sprintf(
			"<p>Thanks for your request!</p><p>Your quote code is <strong>%s</strong> and the total comes to <strong>%s %s</strong>.</p><p>Use the code to view your quote at any time.</p>",
			quote.QuoteCode, total, quote.CurrencyCode),
	}
}

// TeamNotification builds the internal notification about a new quote.
func TeamNotification(quote *models.Quote, teamAddr string) Message {
	total := quote.TotalPrice.StringFixed(2)
	return Message{
		ToName:  "Sales",
		ToEmail: teamAddr,
		Subject: fmt.Sprintf("New quote %s from %s", quote.QuoteCode, quote.CustomerEmail),
		Text: fmt.Sprintf(
			"New quote %s\nCustomer: %s <%s>\nTotal: %s %s\n",
			quote.QuoteCode, quote.CustomerName, quote.CustomerEmail, total, quote.CurrencyCode),
		HTML: fmt.Sprintf(
			"<p>New quote <strong>%s</strong></p><p>Customer: %s &lt;%s&gt;</p><p>Total: %s %s</p>",
			quote.QuoteCode, quote.CustomerName, quote.CustomerEmail, total, quote.CurrencyCode),
	}
}
