// Package annotation extracts filesystem and log point declarations from
// preprocessed source text.
//
// Declarations are recognized per line by fixed marker tokens that the
// runtime's declaration macros expand to:
//
//	..fs_command.. "/fs/status" "cmd_status";
//	..fs_counter.. "/drv/uart/rx" ..fs_separator.. "uart_rx";
//	..fs_parameter.. "/drv/uart/baud" "uart_baud" "int";
//	..log-begin.. evt_temp "temp=%d.%dC" ..log-end..;
//
// The order of the returned declarations is input order, then line order.
// Log identities and sibling order in the generated tree depend on it.
package annotation
