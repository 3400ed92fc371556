// Copyright 2026 Freehold Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package authz

import (
	"fmt"
)

// UnauthorizedError indicates that the acting identity does not hold the role
// required by the attempted operation.
type UnauthorizedError struct {
	Identity Identity
	Required Role
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf(
		"identity %q does not hold required role %q",
		string(e.Identity),
		string(e.Required),
	)
}

// AlreadyBootstrappedError indicates that the one-time admin bootstrap has
// already been performed.
type AlreadyBootstrappedError struct{}

func (e *AlreadyBootstrappedError) Error() string {
	return "admin already bootstrapped"
}
