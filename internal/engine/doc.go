// Package engine implements the N-back trial engine.
//
// An Engine runs one session at a time. A session is made of batches: each
// batch draws stimuli into a Queue, asks the user to memorize the first N of
// them, then expects every further input to be the answer of the stimulus
// shown N positions earlier. Once the stimuli run out the remaining N answers
// are still owed (the flush phase). A batch ends after exactly its planned
// number of answers.
//
// Adventure sessions are a single fixed-size batch whose result feeds the
// level Progression. Daily sessions run batches back to back until the time
// budget is spent, retuning N between batches with the Adaptive controller.
//
// All state changes happen through discrete events (SubmitDigit,
// AcknowledgeMemorized, Tick, Quit) and every call returns a Snapshot.
package engine
