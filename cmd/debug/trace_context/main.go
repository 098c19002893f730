package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"research-chat-be/pkg/assembly"
	"research-chat-be/pkg/citation"

	"github.com/fatih/color"
)

// Offline trace harness: runs the citation scanner and the assembly pipeline
// against canned data so the supersession and failure paths can be observed
// without a database or a model.

type cannedResolver struct {
	delay time.Duration
	fail  bool
}

func (r *cannedResolver) Resolve(ctx context.Context, notebookID string, cfg assembly.ContextConfig) (*assembly.AssembledContext, error) {
	time.Sleep(r.delay)
	if r.fail {
		return nil, fmt.Errorf("canned resolver failure")
	}

	result := &assembly.AssembledContext{}
	for id := range cfg.SourceModes {
		content := "Canned source body for " + id
		result.SourceEntries = append(result.SourceEntries, assembly.ContextEntry{
			ID: id, Content: content, CharCount: len(content),
		})
		result.CharCount += len(content)
		result.TokenCount += len(content) / 4
	}
	return result, nil
}

type stdoutNotifier struct{}

func (stdoutNotifier) Notify(sessionID, message string) {
	color.Yellow("  [notify %s] %s", sessionID, message)
}

type echoExecutor struct{}

func (echoExecutor) Execute(ctx context.Context, sessionID, message string, assembled *assembly.AssembledContext) (string, error) {
	return fmt.Sprintf("Echo: %s (see [source:1f2e3d4c5b6a79881f2e3d4c5b6a7988])", message), nil
}

func main() {
	header := color.New(color.FgCyan, color.Bold)
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	header.Println("== 1. Scanner / renderer round trip ==")
	samples := []string{
		"See [source:abc123] for details",
		"**[note:a1b2]** against [[source_insight:c3d4]]",
		"Already anchored: [[source:abc123]](/?object_id=source:abc123)",
	}
	for _, sample := range samples {
		rendered := citation.ConvertReferences(sample)
		again := citation.ConvertReferences(rendered)
		fmt.Printf("  in:     %s\n  out:    %s\n", sample, rendered)
		if rendered == again {
			ok.Println("  stable: rescan is a no-op")
		} else {
			bad.Printf("  UNSTABLE: %s\n", again)
		}
	}

	logger := log.New(os.Stdout, "  ", 0)

	header.Println("\n== 2. Supersession: toggle during in-flight assembly ==")
	store := assembly.NewSelectionStore()
	store.SetSourceMode("1f2e3d4c5b6a79881f2e3d4c5b6a7988", assembly.SourceModeFull)
	asm := assembly.NewAssembler(store, &cannedResolver{delay: 150 * time.Millisecond}, "debug-notebook", logger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := asm.Assemble(context.Background()); err != nil {
			ok.Printf("  first assembly discarded as expected: %v\n", err)
		} else {
			bad.Println("  first assembly applied despite newer toggle")
		}
	}()
	time.Sleep(50 * time.Millisecond)
	store.SetSourceMode("1f2e3d4c5b6a79881f2e3d4c5b6a7988", assembly.SourceModeOff)
	<-done

	header.Println("\n== 3. Orchestrated send with failing resolver ==")
	failStore := assembly.NewSelectionStore()
	failStore.SetSourceMode("deadbeefdeadbeefdeadbeefdeadbeef", assembly.SourceModeFull)
	failAsm := assembly.NewAssembler(failStore, &cannedResolver{fail: true}, "debug-notebook", logger)
	orch := assembly.NewOrchestrator("debug-session", failAsm, echoExecutor{}, stdoutNotifier{}, logger)

	if _, _, err := orch.Send(context.Background(), "hello"); err != nil {
		ok.Printf("  send aborted, message preserved: %v\n", err)
	} else {
		bad.Println("  send went through with a broken resolver")
	}

	header.Println("\n== 4. Orchestrated send, happy path ==")
	okStore := assembly.NewSelectionStore()
	okStore.SetSourceMode("1f2e3d4c5b6a79881f2e3d4c5b6a7988", assembly.SourceModeFull)
	okAsm := assembly.NewAssembler(okStore, &cannedResolver{}, "debug-notebook", logger)
	okOrch := assembly.NewOrchestrator("debug-session", okAsm, echoExecutor{}, stdoutNotifier{}, logger)

	reply, assembled, err := okOrch.Send(context.Background(), "what do my sources say?")
	if err != nil {
		bad.Printf("  send failed: %v\n", err)
		return
	}
	fmt.Printf("  reply:    %s\n", reply)
	fmt.Printf("  rendered: %s\n", citation.ConvertReferences(reply))
	ok.Printf("  context:  %d tokens / %d chars\n", assembled.TokenCount, assembled.CharCount)
}
