// Package headermapper translates between envelope headers and a transport
// adapter's native header model (amqp.Table, []sarama.RecordHeader,
// nats.Header, ...). A Mapper is generic over that native type and is
// configured with glob-style inbound/outbound name patterns, an optional
// user-defined-header prefix, and a descriptor enumerating the protocol's
// own standard header names.
//
// Usage:
//
//	desc := headermapper.StandardHeaderDescriptor{
//		Prefix:         "amqp_",
//		RequestHeaders: []string{"contentType", "correlationId"},
//		ReplyHeaders:   []string{"replyTo"},
//	}
//	m := headermapper.New(desc, adapter, headermapper.Config{
//		InboundHeaderNames: []string{"STANDARD_REQUEST_HEADERS", "x-*"},
//	})
//	headers := m.ToHeaders(nativeHeaders)
//	m.FromHeaders(envelopeHeaders, nativeHeaders)
package headermapper
