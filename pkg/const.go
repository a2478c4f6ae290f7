package pkg

const (
	HeaderTraceId   string = "X-Trace-Id"
	HeaderRequestId string = "X-Request-Id"
)

const (
	TraceId   string = "trace_id"
	RequestId string = "request_id"
)

const (
	ServiceName    string = "Account REST API Service"
	ServiceVersion string = "1.0"
)
