/*
Package sequencer implements a tuning step sequencer: a 16-step pattern,
locked to the musical position of the host, where every step selects one of
four tunings. When the selected tuning changes, the frequencies of all 128
MIDI notes glide towards the new tuning, and the gliding frequencies are
published to a tuning host once per audio frame.

The pieces can be used on their own: StepIndex maps a transport position to a
step, Store holds the tunings of the slots, Selector and Glide produce the
published table and Broadcaster talks to the host. Sequencer ties them
together with the parameters and the persisted state.
*/
package sequencer
