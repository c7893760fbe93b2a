package chatkit

// DefaultMaxMessages is the history window forwarded to the provider when
// no compaction budget is configured.
const DefaultMaxMessages = 40

// logPrefix tags every diagnostic line emitted by the pipeline.
const logPrefix = "[chatkit] "
