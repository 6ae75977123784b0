// Package service orchestrates the read and mutation flows: profile
// connect/disconnect, cached-summary refresh, and the status reads that
// fan out REST and WebSocket fetches before rendering.
package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"komaribot/internal/komari"
	"komaribot/internal/models"
	"komaribot/internal/report"
	"komaribot/internal/store"
)

// ErrNotConnected is the guidance error for users without a profile.
var ErrNotConnected = errors.New("not connected, use /connect <http url> first")

// ErrNodeNotFound is returned for an index past the sorted node list or
// a snapshot entry missing from the REST inventory.
var ErrNodeNotFound = errors.New("no node with that index")

// NormalizeEndpoint canonicalizes a user-supplied HTTP URL down to
// scheme://host[:port] and derives the paired WebSocket base URL
// (http→ws, https→wss). A trailing slash or path is discarded.
func NormalizeEndpoint(raw string) (httpURL, wsURL string, err error) {
	raw = strings.TrimRight(raw, "/")

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Hostname() == "" {
		return "", "", errors.New("invalid URL: missing host")
	}

	var wsScheme string
	switch u.Scheme {
	case "http":
		wsScheme = "ws"
	case "https":
		wsScheme = "wss"
	default:
		return "", "", fmt.Errorf("invalid URL: unsupported scheme %q", u.Scheme)
	}

	host := u.Hostname()
	if p := u.Port(); p != "" {
		host += ":" + p
	}
	return u.Scheme + "://" + host, wsScheme + "://" + host, nil
}

// Connect normalizes the endpoint and inserts the profile with empty
// cached fields. The caller is expected to follow up with
// RefreshSummary and roll back via Disconnect when that fails.
func Connect(telegramID int64, rawURL string) error {
	httpURL, wsURL, err := NormalizeEndpoint(rawURL)
	if err != nil {
		return err
	}

	return store.CreateMonitor(&models.Monitor{
		TelegramID: telegramID,
		HTTPURL:    httpURL,
		WSURL:      wsURL,
	})
}

// Disconnect removes the stored profile.
func Disconnect(telegramID int64) error {
	return store.DeleteMonitor(telegramID)
}

// RefreshSummary re-reads site metadata, node inventory and version from
// the instance in parallel, recomputes the fleet summary and persists
// the cached fields. The three fetches all run to completion; the first
// error encountered fails the whole refresh and nothing is persisted.
func RefreshSummary(telegramID int64) (report.Summary, error) {
	m, err := getMonitor(telegramID)
	if err != nil {
		return report.Summary{}, err
	}

	var (
		public  komari.PublicInfo
		nodes   []komari.Node
		version komari.VersionInfo
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		public, err = komari.FetchPublic(m.HTTPURL)
		return err
	})
	g.Go(func() error {
		var err error
		nodes, err = komari.FetchNodes(m.HTTPURL)
		return err
	})
	g.Go(func() error {
		var err error
		version, err = komari.FetchVersion(m.HTTPURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.Summary{}, err
	}

	s := report.BuildSummary(public, nodes, version)
	if err := store.UpdateSummary(telegramID, models.MonitorSummary{
		TotalServerCount: s.NodeCount,
		SiteName:         s.SiteName,
		SiteDescription:  s.SiteDescription,
		KomariVersion:    s.Version,
	}); err != nil {
		return report.Summary{}, fmt.Errorf("database error: %w", err)
	}
	return s, nil
}

// NodeStatus resolves a 1-based node index to a rendered single-node
// report plus its navigation state. The REST inventory and the WebSocket
// snapshot are fetched concurrently and joined by node uuid; a node
// missing from the snapshot is offline and unreachable by index.
func NodeStatus(telegramID int64, index int) (string, report.Nav, error) {
	m, err := getMonitor(telegramID)
	if err != nil {
		return "", report.Nav{}, err
	}

	var (
		snap  komari.ClientsSnapshot
		nodes []komari.Node
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		snap, err = komari.FetchClients(m.HTTPURL, m.WSURL)
		return err
	})
	g.Go(func() error {
		var err error
		nodes, err = komari.FetchNodes(m.HTTPURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", report.Nav{}, err
	}

	entry, ok := report.EntryByIndex(report.SortedMetrics(snap), index)
	if !ok {
		return "", report.Nav{}, ErrNodeNotFound
	}

	var node *komari.Node
	for i := range nodes {
		if nodes[i].UUID == entry.ID {
			node = &nodes[i]
			break
		}
	}
	if node == nil {
		return "", report.Nav{}, ErrNodeNotFound
	}

	text := report.NodeReport(m.SiteName, *node, entry.Metrics)
	nav := report.BuildNav(telegramID, index, m.TotalServerCount)
	return text, nav, nil
}

// FleetStatus renders the all-nodes overview from one fresh snapshot.
func FleetStatus(telegramID int64) (string, error) {
	m, err := getMonitor(telegramID)
	if err != nil {
		return "", err
	}

	snap, err := komari.FetchClients(m.HTTPURL, m.WSURL)
	if err != nil {
		return "", err
	}
	return report.FleetReport(m.SiteName, m.TotalServerCount, snap), nil
}

// NodeIDList renders the numbered node listing, joining the sorted
// snapshot order with inventory names. Both fetches run concurrently.
func NodeIDList(telegramID int64) (string, error) {
	m, err := getMonitor(telegramID)
	if err != nil {
		return "", err
	}

	var (
		snap  komari.ClientsSnapshot
		nodes []komari.Node
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		snap, err = komari.FetchClients(m.HTTPURL, m.WSURL)
		return err
	})
	g.Go(func() error {
		var err error
		nodes, err = komari.FetchNodes(m.HTTPURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	return report.NodeIDList(report.SortedMetrics(snap), nodes)
}

// GenerateNotificationToken mints a fresh token and stores it, replacing
// any previous one. A single token is active per user at any time.
func GenerateNotificationToken(telegramID int64) (string, error) {
	token := uuid.NewString()
	if err := store.UpdateNotificationToken(telegramID, token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotConnected
		}
		return "", fmt.Errorf("database error: %w", err)
	}
	return token, nil
}

func getMonitor(telegramID int64) (*models.Monitor, error) {
	m, err := store.GetMonitor(telegramID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotConnected
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return m, nil
}
