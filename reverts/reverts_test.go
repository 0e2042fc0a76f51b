// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(StaleRate, "test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, "StaleRate: test", revert.Error())
	assert.Equal(t, StaleRate, revert.Code())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func TestRevert_IsMatchesCode(t *testing.T) {
	err := Newf(CapacityExceeded, "validators: %d of %d", 3, 3)

	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.False(t, errors.Is(err, ErrStaleRate))

	wrapped := pkgerrors.Wrap(err, "add validator")
	assert.True(t, errors.Is(wrapped, ErrCapacityExceeded))
	assert.Equal(t, CapacityExceeded, CodeOf(wrapped))
	assert.Equal(t, Unknown, CodeOf(errors.New("plain")))
}

func TestCode_String(t *testing.T) {
	assert.Equal(t, "MergeIneligible", MergeIneligible.String())
	assert.Equal(t, "Code(999)", Code(999).String())
}
