// Package claudepipe drives the Claude Code CLI as a subprocess and
// exposes its stream-json output as a typed, pull-based message sequence.
//
// A [Client] starts one subprocess per query. The prompt travels over
// stdin; stdout is decoded line by line as the process runs, so messages
// arrive before the process exits and a slow consumer backpressures the
// CLI through the pipe:
//
//	client := claudepipe.NewClient()
//	query, err := client.Query(ctx, "explain this repo", nil)
//	if err != nil {
//	    return err
//	}
//	defer query.Close()
//	for {
//	    msg, err := query.Next(ctx)
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // switch on the concrete message type
//	}
//
// Callers that want aggregate views instead of raw messages use the
// response materializer, which drains the sequence exactly once and
// derives every view from that single pass:
//
//	resp := query.Response()
//	text, _ := resp.Text()
//	usage, _ := resp.Usage()
//
// Failures are classified in package piperrs: not-found, connection,
// decode, process, protocol and aborted, each carrying enough structured
// detail to act on without string matching.
package claudepipe
