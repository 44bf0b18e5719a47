package peer_test

import (
	"errors"
	"testing"

	"github.com/minichain/node/foundation/blockchain/peer"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "host1"}, {Host: "host2"}, {Host: "host3"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, peer := range tst.peers {
				ps.Add(peer)
			}

			peers := ps.Copy("")
			if len(peers) != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			peers = ps.Copy("host2")
			if len(peers) != len(tst.peers)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers)-1)
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Parse(t *testing.T) {
	type table struct {
		name    string
		address string
		host    string
		err     bool
	}

	tt := []table{
		{name: "url", address: "http://192.168.0.5:5000", host: "192.168.0.5:5000"},
		{name: "url-path", address: "http://192.168.0.5:5000/v1/node", host: "192.168.0.5:5000"},
		{name: "bare", address: "192.168.0.5:5000", host: "192.168.0.5:5000"},
		{name: "case", address: "HTTP://Node-A.Example.com:9080", host: "node-a.example.com:9080"},
		{name: "no-port", address: "https://node.example.com", host: "node.example.com"},
		{name: "ipv6", address: "http://[::1]:9080", host: "[::1]:9080"},
		{name: "ipv6-no-port", address: "http://[::1]", host: "[::1]"},
		{name: "ipv6-case", address: "http://[FE80::1]/v1", host: "[fe80::1]"},
		{name: "empty", address: "  ", err: true},
		{name: "no-host", address: "http://:9080", err: true},
		{name: "empty-port", address: "node.example.com:", err: true},
		{name: "garbage", address: "http://%zz", err: true},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			p, err := peer.Parse(tst.address)
			if tst.err {
				if !errors.Is(err, peer.ErrInvalidAddress) {
					t.Fatalf("Test %s:\tShould get an invalid address error, got %v.", tst.name, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Test %s:\tShould be able to parse %q: %s", tst.name, tst.address, err)
			}

			if p.Host != tst.host {
				t.Logf("Test %s:\tgot: %s", tst.name, p.Host)
				t.Logf("Test %s:\texp: %s", tst.name, tst.host)
				t.Fatalf("Test %s:\tShould get back the normalized host.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_AddIdempotent(t *testing.T) {
	ps := peer.NewPeerSet()

	for _, address := range []string{"http://10.0.0.1:9080", "10.0.0.1:9080", "http://10.0.0.1:9080/"} {
		p, err := peer.Parse(address)
		if err != nil {
			t.Fatalf("Should be able to parse %q: %s", address, err)
		}
		ps.Add(p)
	}

	if ps.Count() != 1 {
		t.Logf("got: %d", ps.Count())
		t.Logf("exp: %d", 1)
		t.Fatalf("Should keep a single entry for the same location.")
	}
}
