package commands

import (
	"context"

	"github.com/SkynetLabs/webportal-dnslink-api/pkg/apiserver"
	"github.com/SkynetLabs/webportal-dnslink-api/pkg/dnsclient"
	"github.com/SkynetLabs/webportal-dnslink-api/pkg/resolver"
	"github.com/SkynetLabs/webportal-dnslink-api/pkg/version"
	"github.com/rancher/wrangler/pkg/signals"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type apiServerCommand struct{}

func (s *apiServerCommand) Execute(c *cli.Context) error {
	ctx := signals.SetupSignalHandler(context.Background())

	log := logrus.WithField("command", "api-server")

	log.Infof("version: %v", version.Get())

	client, err := dnsclient.New(c.String("dns-server"))
	if err != nil {
		return err
	}

	cache := resolver.NewTXTCache(client, resolver.CacheOptions{
		MaxEntries: c.Int("cache-size"),
		TTL:        c.Duration("cache-ttl"),
	})

	res := resolver.New(cache, log)

	apiServer := apiserver.NewAPIServer(ctx, log, apiserver.Options{
		Port:           c.Int("port"),
		AdminTokenHash: c.String("admin-token-hash"),
		StatsInterval:  c.Duration("stats-interval"),
	})

	if err := apiServer.Start(res); err != nil {
		return err
	}

	return nil
}

func serverCommand() *cli.Command {
	cmd := apiServerCommand{}

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Usage:   "Port for the HTTP Server Port",
			EnvVars: []string{"DNSLINK_PORT", "PORT"},
			Value:   3100,
		},
		&cli.StringFlag{
			Name:    "dns-server",
			Usage:   "Upstream DNS server as host:port. Empty means the first server in /etc/resolv.conf",
			EnvVars: []string{"DNSLINK_DNS_SERVER", "DNS_SERVER"},
		},
		&cli.IntFlag{
			Name:    "cache-size",
			Usage:   "Maximum number of cached TXT lookups",
			EnvVars: []string{"DNSLINK_CACHE_SIZE", "CACHE_SIZE"},
			Value:   resolver.DefaultCacheMaxEntries,
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "How long a cached TXT lookup stays valid",
			EnvVars: []string{"DNSLINK_CACHE_TTL", "CACHE_TTL"},
			Value:   resolver.DefaultCacheTTL,
		},
		&cli.DurationFlag{
			Name:    "stats-interval",
			Usage:   "How often cache statistics are logged, 0 disables the stats daemon",
			EnvVars: []string{"DNSLINK_STATS_INTERVAL", "STATS_INTERVAL"},
			Value:   apiserver.DefaultStatsInterval,
		},
		&cli.StringFlag{
			Name:    "admin-token-hash",
			Usage:   "Bcrypt hash of the token guarding admin routes. Empty disables them",
			EnvVars: []string{"DNSLINK_ADMIN_TOKEN_HASH", "ADMIN_TOKEN_HASH"},
		},
	}

	return &cli.Command{
		Name:   "api-server",
		Usage:  "dnslink api server",
		Action: cmd.Execute,
		Flags:  append(flags, GlobalFlags()...),
		Before: Before,
	}
}
