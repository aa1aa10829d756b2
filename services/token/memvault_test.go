package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransferFromRequiresAllowance(t *testing.T) {
	v := NewMemVault("0xvault")
	v.Mint("0xguest", 100)

	err := v.TransferFrom("0xguest", "0xvault", 50)
	require.Error(t, err)

	v.Approve("0xguest", 50)
	require.NoError(t, v.TransferFrom("0xguest", "0xvault", 50))
	require.EqualValues(t, 50, v.BalanceOf("0xguest"))
	require.EqualValues(t, 50, v.BalanceOf("0xvault"))

	// Allowance is spent.
	err = v.TransferFrom("0xguest", "0xvault", 1)
	require.Error(t, err)
}

func TestTransferFromRejectsOverdraft(t *testing.T) {
	v := NewMemVault("0xvault")
	v.Mint("0xguest", 10)
	v.Approve("0xguest", 100)

	err := v.TransferFrom("0xguest", "0xvault", 11)
	require.Error(t, err)
	require.EqualValues(t, 10, v.BalanceOf("0xguest"))
}

func TestTransferPaysOutOfCustody(t *testing.T) {
	v := NewMemVault("0xvault")
	v.Mint("0xvault", 30)

	require.NoError(t, v.Transfer("0xhost", 20))
	require.EqualValues(t, 20, v.BalanceOf("0xhost"))
	require.EqualValues(t, 10, v.BalanceOf("0xvault"))

	err := v.Transfer("0xhost", 11)
	require.Error(t, err)
}
