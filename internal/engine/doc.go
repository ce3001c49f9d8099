// Package engine constructs ffmpeg argument lists from mix plans and runs
// the external processes. The core never re-derives codec behavior: it only
// builds descriptors (inputs, filter graph, output directives) and
// interprets exit status, attaching stderr verbatim to failures.
package engine
