// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains background job processing (using Redis/Asynq), the
// handoff event publisher (RabbitMQ), and email client integrations
// (like Resend).
package lib
