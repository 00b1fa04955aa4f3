package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixdeck/internal/domain"
)

func TestPublishIsSynchronousAndOrdered(t *testing.T) {
	b := New()
	var calls []string

	b.Subscribe(EventRecallRequested, func(e DomainEvent) { calls = append(calls, "first") })
	b.Subscribe(EventRecallRequested, func(e DomainEvent) { calls = append(calls, "second") })
	b.Subscribe(EventRecallRequested, func(e DomainEvent) { calls = append(calls, "third") })

	b.Publish(RecallRequestedEvent{Query: "house music"})

	// No waiting: handlers ran before Publish returned
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestPublishOnlyReachesMatchingType(t *testing.T) {
	b := New()
	recalls := 0
	selections := 0
	b.Subscribe(EventRecallRequested, func(DomainEvent) { recalls++ })
	b.Subscribe(EventSelectionMade, func(DomainEvent) { selections++ })

	PublishRecall(b, "jazz")
	assert.Equal(t, 1, recalls)
	assert.Equal(t, 0, selections)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	var got []string

	unsubA := SubscribeRecall(b, func(q string) { got = append(got, "a:"+q) })
	SubscribeRecall(b, func(q string) { got = append(got, "b:"+q) })

	PublishRecall(b, "one")
	unsubA()
	unsubA() // idempotent
	PublishRecall(b, "two")

	assert.Equal(t, []string{"a:one", "b:one", "b:two"}, got)
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	b := New()
	var got []string
	var unsub func()

	unsub = b.Subscribe(EventRecallRequested, func(DomainEvent) {
		got = append(got, "self-removing")
		unsub()
	})
	b.Subscribe(EventRecallRequested, func(DomainEvent) { got = append(got, "other") })

	b.Publish(RecallRequestedEvent{})
	b.Publish(RecallRequestedEvent{})

	assert.Equal(t, []string{"self-removing", "other", "other"}, got)
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	b := New()
	reached := false

	b.Subscribe(EventRecallRequested, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventRecallRequested, func(DomainEvent) { reached = true })

	require.NotPanics(t, func() { b.Publish(RecallRequestedEvent{Query: "x"}) })
	assert.True(t, reached)
}

func TestSelectionHelpers(t *testing.T) {
	b := New()
	var gotImage domain.SelectedImage
	var gotOrigin domain.Rect

	SubscribeSelection(b, func(img domain.SelectedImage, origin domain.Rect) {
		gotImage = img
		gotOrigin = origin
	})

	img := domain.SelectedImage{AltText: "Mix", LargeSrc: "l.jpg"}
	PublishSelection(b, img, domain.Rect{X: 2, Y: 5, W: 30, H: 1})

	assert.Equal(t, img, gotImage)
	assert.Equal(t, domain.Rect{X: 2, Y: 5, W: 30, H: 1}, gotOrigin)
}

func TestPublishNilIsIgnored(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() { b.Publish(nil) })
}
