// Package parallel runs per-pixel work for the software rasterizer on a
// fixed set of goroutines.
//
// A surface is split into horizontal bands with Bands; each band is an
// independent work item handed to WorkerPool.ExecuteAll. Bands never
// overlap, so work items can write their band without synchronization.
package parallel
