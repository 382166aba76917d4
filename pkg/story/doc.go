// Package story provides the storyline domain model and its mutations.
//
// A [Storyline] is an ordered list of [Event] values connected by transition
// slots embedded in each event's [Content]:
//
//	*StoryContent  one "next" slot
//	*Decision      one "opt:<id>" slot per option
//	*Battle        "win" and "lose" slots
//	*End           no slots
//
// [Slots] and [Targets] expose those slots uniformly, regardless of content
// kind, so validators, layout and diagram code never switch on the variant.
//
// # Mutations
//
// Every mutation takes a Storyline by value and returns a new one. The input
// is never modified, which lets an editing session keep the previous model
// when an operation fails:
//
//	s, ev, _ := story.AddEvent(s, story.KindStory, "Intro")
//	s, _ = story.ChangeKind(s, ev.ID, story.KindDecision)
//	s, _ = story.DeleteEvent(s, ev.ID, true)
//
// Deleting an event clears every slot that pointed at it. Changing an event's
// kind resets its content to the kind's default.
//
// # Opaque payloads
//
// Conditions, rewards and enemy snapshots are [Payload] values. The package
// deep-copies them but never reads them.
package story
