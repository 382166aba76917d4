// Package document defines the persisted form of a storyline.
//
// # Format
//
// A storyline document is a JSON object. Event content is flattened into a
// single object discriminated by "kind"; fields that do not belong to the
// kind are omitted:
//
//	{
//	  "version": 1,
//	  "id": "sl_4a1f0c2d9e7b",
//	  "name": "The Bandit Camp",
//	  "start_event_id": "ev_a",
//	  "events": [
//	    {
//	      "id": "ev_a", "name": "Arrival", "node_type": "start",
//	      "content": {"kind": "story", "text": "...", "next_event_id": "ev_b"}
//	    },
//	    {
//	      "id": "ev_b", "name": "Guards", "node_type": "middle",
//	      "content": {
//	        "kind": "decision",
//	        "options": [{"id": "opt_1", "text": "Fight", "next_event_id": "ev_c"}]
//	      }
//	    },
//	    {
//	      "id": "ev_c", "name": "Fight", "node_type": "middle",
//	      "content": {
//	        "kind": "battle", "enemy_id": "bandit",
//	        "win": {"next_event_id": "ev_d"}, "lose": {"next_event_id": ""}
//	      }
//	    },
//	    {"id": "ev_d", "name": "Victory", "node_type": "end", "content": {"kind": "end"}}
//	  ]
//	}
//
// The same struct carries bson tags and is stored as-is by the MongoDB store,
// with the storyline id as the document _id.
//
// Condition, reward and enemy payloads are free-form objects. They are
// decoded into generic maps and written back unchanged.
//
// # Decoding
//
// [Unmarshal] rejects documents that break the model's structural invariants:
// unknown content kinds, duplicate event ids and duplicate option ids within
// one decision. Options without an id get a fresh one. Everything else,
// including dangling targets and a missing start event, is left for the
// validator to report.
package document
