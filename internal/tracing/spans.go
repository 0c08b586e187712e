package tracing

// Span attribute keys.
const (
	AttrLanguage     = "tincture.language"
	AttrLanguages    = "tincture.languages"
	AttrSettingsPath = "tincture.settings.path"
	AttrGeneration   = "tincture.environment.generation"
	AttrUpdated      = "tincture.apply.updated"
	AttrSkipped      = "tincture.apply.skipped"
	AttrChanges      = "tincture.apply.changes"
	AttrSnapshotID   = "tincture.history.snapshot_id"
	AttrReason       = "tincture.reason"
)

// Span names.
const (
	SpanLoad       = "session.load"
	SpanReload     = "session.reload"
	SpanResolve    = "reconcile.resolve"
	SpanApply      = "formatting.apply"
	SpanSave       = "session.save"
	SpanInvalidate = "environment.invalidate"
)

// Span events.
const (
	EventSnapshotRecorded = "history.snapshot_recorded"
	EventRegistered       = "formatting.registered"
)
