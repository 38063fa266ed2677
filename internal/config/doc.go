// Package config manages the wpvhost configuration stored in YAML format.
//
// Every path and name the provisioning flow depends on lives here: the web
// root base, the nginx directories and service unit, the PHP-FPM socket
// directory, the TLS snippets, the hosts file, the account that owns the site
// files and how to reach the database server.
//
// Configuration is read from ~/.config/wpvhost/config.yaml unless another
// path is given. A missing file is not an error; the defaults detected for
// the current platform are used instead.
//
// Example config.yaml:
//
//	web_root_base: /srv/www
//	public_dir: public_html
//	logs_dir: logs
//	nginx:
//	  available: /etc/nginx/sites-available
//	  enabled: /etc/nginx/sites-enabled
//	  service: nginx
//	php_socket_dir: /run/php
//	tls:
//	  certificate_snippet: snippets/self-signed.conf
//	  params_snippet: snippets/ssl-params.conf
//	max_body_size: 64M
//	hosts_file: /etc/hosts
//	service_user: www-data
//	service_group: www-data
//	database:
//	  net: unix
//	  address: /run/mysqld/mysqld.sock
//	  charset: utf8mb4
//	  collation: utf8mb4_unicode_ci
//	wordpress:
//	  download_url: https://wordpress.org/latest.zip
//	  db_host: localhost
//
// Keys left out of the file keep their default values.
//
// # Thread Safety
//
// Config operations are NOT thread-safe. Callers must implement their own
// synchronization if accessing Config from multiple goroutines.
package config
