package events_test

import (
	"testing"

	"github.com/minichain/node/foundation/events"
)

const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Events(t *testing.T) {
	t.Log("Given the need to fan events out to websocket receivers.")
	{
		evts := events.New()

		ch1 := evts.Acquire("one")
		ch2 := evts.Acquire("two")
		if evts.Acquire("one") != ch1 || evts.Count() != 2 {
			t.Fatalf("\t%s\tShould reuse the channel for a known id.", failed)
		}
		t.Logf("\t%s\tShould reuse the channel for a known id.", success)

		evts.Send("worker: block[2]")
		if <-ch1 != "worker: block[2]" || <-ch2 != "worker: block[2]" {
			t.Fatalf("\t%s\tShould deliver the event to every receiver.", failed)
		}
		t.Logf("\t%s\tShould deliver the event to every receiver.", success)

		for range 200 {
			evts.Send("flood")
		}
		t.Logf("\t%s\tShould not block when a receiver falls behind.", success)

		if err := evts.Release("one"); err != nil {
			t.Fatalf("\t%s\tShould be able to release a receiver : %s", failed, err)
		}
		if err := evts.Release("one"); err == nil {
			t.Fatalf("\t%s\tShould fail to release an unknown receiver.", failed)
		}
		t.Logf("\t%s\tShould be able to release a receiver once.", success)

		evts.Shutdown()
		if evts.Count() != 0 {
			t.Fatalf("\t%s\tShould remove every receiver on shutdown.", failed)
		}
		for range ch2 {
		}
		t.Logf("\t%s\tShould close every channel on shutdown.", success)
	}
}
