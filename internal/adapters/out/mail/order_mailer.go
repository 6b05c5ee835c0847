// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"fmt"
	"strings"

	orderdom "simo/internal/domain/order"
)

// OrderMailer sends the order confirmation email after checkout commits.
// Implements usecase.ConfirmationMailer. Failures are logged by the caller,
// never surfaced to the customer: the order is already committed.
type OrderMailer struct {
	client      EmailClient
	fromAddress string
}

func NewOrderMailer(client EmailClient, fromAddress string) *OrderMailer {
	return &OrderMailer{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
	}
}

func (m *OrderMailer) SendOrderConfirmation(ctx context.Context, o orderdom.Order) error {
	to := strings.TrimSpace(o.CustomerInfo.Email)
	if to == "" {
		return fmt.Errorf("order %s has no customer email", o.OrderNumber)
	}

	subject := fmt.Sprintf("Confirmation de commande %s", o.OrderNumber)

	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour %s,\n\n", o.CustomerInfo.Name)
	fmt.Fprintf(&b, "Merci pour votre commande %s.\n\n", o.OrderNumber)
	b.WriteString("Articles:\n")
	for _, it := range o.Items {
		label := it.ProductName
		if it.Variant != nil && it.Variant.Name != "" {
			label = fmt.Sprintf("%s (%s)", label, it.Variant.Name)
		}
		fmt.Fprintf(&b, "  - %s x%d : %.2f MAD\n", label, it.Quantity, it.UnitPrice*float64(it.Quantity))
	}
	fmt.Fprintf(&b, "\nSous-total : %.2f MAD\n", o.Subtotal)
	fmt.Fprintf(&b, "Livraison (%s) : %.2f MAD\n", o.DeliveryZone, o.DeliveryPrice)
	if o.Discount > 0 {
		fmt.Fprintf(&b, "Remise (%s) : -%.2f MAD\n", o.CouponCode, o.Discount)
	}
	fmt.Fprintf(&b, "Total : %.2f MAD\n\n", o.Total)
	fmt.Fprintf(&b, "Adresse de livraison :\n  %s\n  %s, %s\n\n",
		o.CustomerInfo.Address, o.CustomerInfo.City, o.CustomerInfo.PostalCode)
	b.WriteString("Paiement à la livraison.\n\n-- \nSIMO Cosmetics")

	return m.client.Send(ctx, m.fromAddress, to, subject, b.String())
}
