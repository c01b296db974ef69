package gateway

// WishRegistryABI is the ABI of the WishRegistry contract.
const WishRegistryABI = `[{"anonymous":false,"inputs":[{"indexed":true,"internalType":"uint256","name":"id","type":"uint256"},{"indexed":true,"internalType":"address","name":"author","type":"address"},{"indexed":false,"internalType":"string","name":"signId","type":"string"},{"indexed":false,"internalType":"uint256","name":"createdAt","type":"uint256"}],"name":"WishCreated","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"internalType":"uint256","name":"id","type":"uint256"},{"indexed":true,"internalType":"address","name":"liker","type":"address"},{"indexed":false,"internalType":"uint256","name":"newLikes","type":"uint256"}],"name":"WishLiked","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"internalType":"uint256","name":"id","type":"uint256"},{"indexed":true,"internalType":"address","name":"tipper","type":"address"},{"indexed":false,"internalType":"uint256","name":"amount","type":"uint256"},{"indexed":false,"internalType":"uint256","name":"newTotal","type":"uint256"}],"name":"WishTipped","type":"event"},{"inputs":[],"name":"getAll","outputs":[{"internalType":"uint256[]","name":"ids","type":"uint256[]"},{"internalType":"address[]","name":"authors","type":"address[]"},{"internalType":"string[]","name":"nicknames","type":"string[]"},{"internalType":"string[]","name":"contents","type":"string[]"},{"internalType":"string[]","name":"signIds","type":"string[]"},{"internalType":"uint256[]","name":"createdAts","type":"uint256[]"},{"internalType":"uint256[]","name":"likes","type":"uint256[]"},{"internalType":"uint256[]","name":"tips","type":"uint256[]"}],"stateMutability":"view","type":"function"},{"inputs":[],"name":"getCount","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"string","name":"content","type":"string"},{"internalType":"string","name":"nickname","type":"string"},{"internalType":"string","name":"signId","type":"string"}],"name":"create","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"internalType":"uint256","name":"id","type":"uint256"}],"name":"like","outputs":[],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"internalType":"uint256","name":"id","type":"uint256"}],"name":"tip","outputs":[],"stateMutability":"payable","type":"function"}]`
