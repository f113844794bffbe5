// Package payment verifies and applies payment-processor webhook events.
//
// Events arrive signed with a Payment-Signature header of the form
// "t=<unix seconds>,v1=<hex hmac-sha256>" where the HMAC covers
// "<t>.<raw body>". Only checkout.session.completed changes state: it marks
// the order opened with that session as paid.
package payment
