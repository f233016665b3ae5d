/*
   Copyright (c) 2023, btnmasher
   All rights reserved.

   Redistribution and use in source and binary forms, with or without modification, are permitted provided that
   the following conditions are met:

   1. Redistributions of source code must retain the above copyright notice, this list of conditions and the
      following disclaimer.

   2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and
      the following disclaimer in the documentation and/or other materials provided with the distribution.

   3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or
      promote products derived from this software without specific prior written permission.

   THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED
   WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A
   PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR
   ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED
   TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
   HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
   NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
   POSSIBILITY OF SUCH DAMAGE.
*/

package relay

// Error is a workaround to allow for immutable error strings
// which satisfy the error interface.
type Error string

func (err Error) Error() string {
	return string(err)
}

func (err Error) String() string {
	return string(err)
}

// Immutable error strings. None of these are fatal; every one is
// surfaced to the issuing user as an italicized reply.
const (
	ErrInvalidNick      Error = "that nick is not valid"
	ErrNickTaken        Error = "that nick is already in use"
	ErrNickUnchanged    Error = "you already have that nick"
	ErrNotInChannel     Error = "you are not in a channel"
	ErrNoSuchScore      Error = "that item has no score"
	ErrScoreAlreadyZero Error = "that item's score is already zero"
	ErrEmptyMessage     Error = "message body must not be empty"
	ErrWrongArity       Error = "wrong number of arguments"
)

// ErrStateDecode signals that a persisted snapshot could not be parsed.
// This is the one fatal error in the system: the boot shim logs it and
// exits rather than starting from a blank or partially-loaded model.
const ErrStateDecode Error = "could not decode persisted chat state"

// ErrNickCollisionOnLoad is returned by deserialize when a snapshot
// violates nick uniqueness rather than silently auto-renaming.
const ErrNickCollisionOnLoad Error = "persisted state contains duplicate nicks"
