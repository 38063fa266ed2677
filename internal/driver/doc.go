// Package driver manages the nginx side of a provisioned site.
//
// A driver writes the rendered configuration into the "available" directory,
// activates it, asks the server to validate its configuration and reloads it.
//
// # Layouts
//
// Debian and Ubuntu keep configs in sites-available and activate them with a
// symlink in sites-enabled. Homebrew and RHEL-style installs use a single
// directory whose *.conf files are all loaded; there the config file gets a
// .conf suffix and Enable only checks that it exists.
//
// # Basic Usage
//
//	drv := driver.NewNginx(driver.Paths{
//	    Available: "/etc/nginx/sites-available",
//	    Enabled:   "/etc/nginx/sites-enabled",
//	}, "nginx", executor.NewSystemExecutor())
//
//	if err := drv.Write("example.com", content); err != nil {
//	    return err
//	}
//	if err := drv.Enable("example.com"); err != nil {
//	    return err
//	}
//	if err := drv.Test(ctx); err != nil {
//	    return err
//	}
//	return drv.Reload(ctx)
//
// # Testing
//
// MockDriver records every call and lets tests replace any method:
//
//	mock := driver.NewMockDriver("nginx", "/tmp/available", "/tmp/enabled")
//	mock.TestFunc = func() error { return errors.New("emerg") }
package driver
