// Package template renders the nginx virtual host configuration from an
// embedded Go template.
//
// There is exactly one template shape, nginx/vhost.tmpl. It always produces
// four server blocks:
//
//	server { listen 443 ssl; server_name example.com www.example.com; ... }
//	server { listen 443 ssl; server_name uploads.example.com; ... }
//	server { listen 80; server_name example.com www.example.com; return 301 ... }
//	server { listen 80; server_name uploads.example.com; return 301 ... }
//
// Both HTTPS blocks include the TLS certificate and parameter snippets by
// name (the snippets are expected to exist on the server already), send an
// HSTS header, route unknown paths to index.php, deny access to VCS metadata,
// .env files and wp-config.php, and forward PHP requests to the PHP-FPM
// socket.
//
// # Rendering
//
//	socket := template.ResolveSocketPath("8.3") // /run/php/php8.3-fpm.sock
//	content, err := template.RenderVirtualHost(template.VirtualHost{
//	    Domain:     "example.com",
//	    SocketPath: socket,
//	    WebRoot:    "/var/www/example.com/public_html",
//	    LogDir:     "/var/www/example.com/logs",
//	})
//
// Rendering performs no I/O and is deterministic: the same VirtualHost always
// yields byte-identical output.
package template
