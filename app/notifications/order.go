// Package notifications contains the concrete notification types sent to
// buyers and staff. Rendering is deliberately plain inline HTML — the mail
// templates live with the code that fills them.
package notifications

import (
	"fmt"
	"strings"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/notification"
)

// OrderConfirmation is mailed to the buyer right after checkout commits.
type OrderConfirmation struct {
	Order *models.Order
}

func (n *OrderConfirmation) Via() []string { return []string{"mail"} }

func (n *OrderConfirmation) ToMail() notification.MailData {
	return notification.MailData{
		Subject: fmt.Sprintf("Order %s confirmed", shortNumber(n.Order.Number)),
		Body: fmt.Sprintf(
			"<h2>Thanks for your order!</h2>"+
				"<p>Order <strong>%s</strong> has been received and is being prepared.</p>"+
				"%s"+
				"<p>Subtotal: %.2f<br>Shipping: %.2f<br><strong>Total: %.2f</strong></p>",
			shortNumber(n.Order.Number), itemsTable(n.Order.Items),
			n.Order.Subtotal, n.Order.ShippingTotal, n.Order.Total,
		),
	}
}

// OrderStatusUpdate is mailed to the buyer whenever the status or the
// admin message of their order changes.
type OrderStatusUpdate struct {
	Order *models.Order
}

func (n *OrderStatusUpdate) Via() []string { return []string{"mail"} }

func (n *OrderStatusUpdate) ToMail() notification.MailData {
	body := fmt.Sprintf(
		"<h2>Order %s update</h2><p>Your order is now <strong>%s</strong>.</p>%s",
		shortNumber(n.Order.Number), n.Order.Status, itemsTable(n.Order.Items),
	)
	if n.Order.AdminMessage != "" {
		body += fmt.Sprintf("<p>%s</p>", n.Order.AdminMessage)
	}

	return notification.MailData{
		Subject: fmt.Sprintf("Order %s is %s", shortNumber(n.Order.Number), n.Order.Status),
		Body:    body,
	}
}

// LowStockAlert goes to the operations Slack channel, not to buyers.
type LowStockAlert struct {
	SKU       string
	Remaining int
}

func (n *LowStockAlert) Via() []string { return []string{"slack"} }

func (n *LowStockAlert) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("Low stock: %s has %d unit(s) left", n.SKU, n.Remaining),
		Attachments: []notification.SlackAttachment{
			{Color: "warning", Title: n.SKU, Text: fmt.Sprintf("%d remaining", n.Remaining)},
		},
	}
}

func itemsTable(items []models.OrderItem) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for _, item := range items {
		label := item.Title
		if item.VariantTitle != "" {
			label += " (" + item.VariantTitle + ")"
		}
		fmt.Fprintf(&b, "<li>%d × %s — %.2f</li>", item.Quantity, label, item.TotalPrice)
	}
	b.WriteString("</ul>")
	return b.String()
}

// shortNumber trims a UUID order number to its first segment for subjects.
func shortNumber(number string) string {
	if i := strings.IndexByte(number, '-'); i > 0 {
		return strings.ToUpper(number[:i])
	}
	return number
}
