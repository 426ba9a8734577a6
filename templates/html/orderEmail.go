package templates

import (
	"fmt"
	"html"
)

// RenderOrderReceipt generates branded HTML for the payment receipt email.
// All dynamic fields are HTML-escaped.
func RenderOrderReceipt(customerName, orderID, vehicleDescription string, amountCents int64) string {
	safeName := html.EscapeString(customerName)
	safeOrderID := html.EscapeString(orderID)
	safeVehicle := html.EscapeString(vehicleDescription)
	amount := fmt.Sprintf("$%.2f", float64(amountCents)/100)

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>Payment Received</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #0a0a0f; }
    .container { max-width: 600px; margin: 0 auto; background-color: #12121f; }
    .header { background: linear-gradient(135deg, #1e3a5f 0%%, #2c5f8a 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #e5e7eb; line-height: 1.6; font-size: 15px; }
    .receipt { background-color: #1a1a2e; border-radius: 8px; padding: 20px; margin: 20px 0; }
    .receipt td { padding: 6px 0; color: #e5e7eb; }
    .receipt .label { color: #9ca3af; padding-right: 16px; }
    .footer { padding: 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid rgba(255,255,255,0.1); }
    .footer a { color: #667eea; text-decoration: none; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Payment Received</h1>
    </div>
    <div class="content">
      <p>Hi %s,</p>
      <p>We've received your payment. Your order is confirmed and our team will be in touch shortly to arrange delivery.</p>
      <table class="receipt" width="100%%">
        <tr><td class="label">Order</td><td>%s</td></tr>
        <tr><td class="label">Vehicle</td><td>%s</td></tr>
        <tr><td class="label">Amount paid</td><td>%s</td></tr>
      </table>
      <p>Thank you for choosing Open Road Motors.</p>
    </div>
    <div class="footer">
      <p>&copy; Open Road Motors | <a href="https://www.openroadmotors.com">openroadmotors.com</a></p>
      <p><a href="https://www.openroadmotors.com/contact">Contact Support</a></p>
    </div>
  </div>
</body>
</html>`, safeName, safeOrderID, safeVehicle, amount)
}
