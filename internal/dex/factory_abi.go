package dex

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const lbFactoryABIJSON = `[
  {
    "inputs": [
      {"internalType": "contract IERC20", "name": "tokenA", "type": "address"},
      {"internalType": "contract IERC20", "name": "tokenB", "type": "address"},
      {"internalType": "uint256", "name": "binStep", "type": "uint256"}
    ],
    "name": "getLBPairInformation",
    "outputs": [
      {
        "components": [
          {"internalType": "uint16", "name": "binStep", "type": "uint16"},
          {"internalType": "contract ILBPair", "name": "LBPair", "type": "address"},
          {"internalType": "bool", "name": "createdByOwner", "type": "bool"},
          {"internalType": "bool", "name": "ignoredForRouting", "type": "bool"}
        ],
        "internalType": "struct ILBFactory.LBPairInformation",
        "name": "lbPairInformation",
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "contract IERC20", "name": "tokenX", "type": "address"},
      {"internalType": "contract IERC20", "name": "tokenY", "type": "address"}
    ],
    "name": "getAllLBPairs",
    "outputs": [
      {
        "components": [
          {"internalType": "uint16", "name": "binStep", "type": "uint16"},
          {"internalType": "contract ILBPair", "name": "LBPair", "type": "address"},
          {"internalType": "bool", "name": "createdByOwner", "type": "bool"},
          {"internalType": "bool", "name": "ignoredForRouting", "type": "bool"}
        ],
        "internalType": "struct ILBFactory.LBPairInformation[]",
        "name": "lbPairsAvailable",
        "type": "tuple[]"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "getAllBinSteps",
    "outputs": [
      {"internalType": "uint256[]", "name": "binStepWithPreset", "type": "uint256[]"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "getOpenBinSteps",
    "outputs": [
      {"internalType": "uint256[]", "name": "openBinStep", "type": "uint256[]"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "binStep", "type": "uint256"}
    ],
    "name": "getPreset",
    "outputs": [
      {"internalType": "uint256", "name": "baseFactor", "type": "uint256"},
      {"internalType": "uint256", "name": "filterPeriod", "type": "uint256"},
      {"internalType": "uint256", "name": "decayPeriod", "type": "uint256"},
      {"internalType": "uint256", "name": "reductionFactor", "type": "uint256"},
      {"internalType": "uint256", "name": "variableFeeControl", "type": "uint256"},
      {"internalType": "uint256", "name": "protocolShare", "type": "uint256"},
      {"internalType": "uint256", "name": "maxVolatilityAccumulator", "type": "uint256"},
      {"internalType": "bool", "name": "isOpen", "type": "bool"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "contract IERC20", "name": "token", "type": "address"}
    ],
    "name": "isQuoteAsset",
    "outputs": [
      {"internalType": "bool", "name": "isQuote", "type": "bool"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "getNumberOfLBPairs",
    "outputs": [
      {"internalType": "uint256", "name": "lbPairNumber", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	lbFactoryABI     abi.ABI
	lbFactoryABIOnce sync.Once
	lbFactoryABIErr  error
)

// FactoryABI returns the parsed LB factory ABI.
func FactoryABI() (abi.ABI, error) {
	lbFactoryABIOnce.Do(func() {
		lbFactoryABI, lbFactoryABIErr = abi.JSON(strings.NewReader(lbFactoryABIJSON))
	})
	return lbFactoryABI, lbFactoryABIErr
}
