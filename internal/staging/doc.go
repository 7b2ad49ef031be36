// Package staging manages per-run workspaces under the staging directory.
//
// A Workspace owns the intermediate files a pipeline run creates. Each
// registered artifact is deleted exactly once, whether by an explicit Release
// or by the final Cleanup, and Cleanup removes the directory itself. CleanStale
// sweeps workspaces left behind by processes that died before cleaning up.
package staging
